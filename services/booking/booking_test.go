package booking

import (
	"testing"
	"time"

	bookingRepo "chargebay/database/repository/booking"
	"chargebay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() (*DefaultBookingService, *fakeBookingRepo, *fakeStationRepo) {
	bRepo := newFakeBookingRepo()
	sRepo := newFakeStationRepo()
	svc := &DefaultBookingService{
		BookingRepo: bRepo,
		StationRepo: sRepo,
		Logger:      zap.NewNop(),
	}
	return svc, bRepo, sRepo
}

func testStation(id, owner string, totalSlots int, rate float64) *models.ChargingStation {
	return &models.ChargingStation{
		ID:             id,
		Owner:          owner,
		Name:           "Test Station",
		TotalSlots:     totalSlots,
		AvailableSlots: totalSlots,
		ChargingRate:   rate,
		IsActive:       true,
	}
}

func TestCreateBooking(t *testing.T) {
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	t.Run("happy path snapshots amount and sets initial statuses", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))

		b, err := svc.CreateBooking("user1", models.RoleEVOwner, CreateBookingInput{
			StationID:  "st1",
			SlotNumber: 1,
			StartTime:  base,
			Duration:   1.5,
		})
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusBooked, b.Status)
		assert.Equal(t, models.PaymentStatusPending, b.PaymentStatus)
		assert.Equal(t, 15.0, b.TotalAmount)
		assert.Equal(t, base.Add(90*time.Minute), b.EndTime)
	})

	t.Run("rejects non ev_owner roles", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))

		_, err := svc.CreateBooking("owner1", models.RoleStationOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 1,
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("rejects durations under half an hour", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))

		_, err := svc.CreateBooking("user1", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 0.25,
		})
		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("unknown station", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.CreateBooking("user1", models.RoleEVOwner, CreateBookingInput{
			StationID: "missing", SlotNumber: 1, StartTime: base, Duration: 1,
		})
		assert.ErrorIs(t, err, ErrStationNotFound)
	})

	t.Run("inactive station", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		st := testStation("st1", "owner1", 2, 10)
		st.IsActive = false
		sRepo.add(st)

		_, err := svc.CreateBooking("user1", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 1,
		})
		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("slot number out of range", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))

		_, err := svc.CreateBooking("user1", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 3, StartTime: base, Duration: 1,
		})
		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("overlapping booking on same slot conflicts", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))

		_, err := svc.CreateBooking("userA", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 1,
		})
		require.NoError(t, err)

		// 30 minutes into the first booking's window.
		_, err = svc.CreateBooking("userB", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base.Add(30 * time.Minute), Duration: 1,
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("same window on a different slot is accepted", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))

		_, err := svc.CreateBooking("userA", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 1,
		})
		require.NoError(t, err)

		_, err = svc.CreateBooking("userB", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 2, StartTime: base, Duration: 1,
		})
		assert.NoError(t, err)
	})

	t.Run("back-to-back windows do not conflict", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 1, 10))

		_, err := svc.CreateBooking("userA", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 1,
		})
		require.NoError(t, err)

		// Starts exactly when the first one ends.
		_, err = svc.CreateBooking("userB", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base.Add(time.Hour), Duration: 1,
		})
		assert.NoError(t, err)
	})

	t.Run("cancelled bookings do not block the slot", func(t *testing.T) {
		svc, bRepo, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 1, 10))

		b, err := svc.CreateBooking("userA", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 1,
		})
		require.NoError(t, err)
		require.NoError(t, bRepo.SetStatus(b.ID, models.BookingStatusCancelled))

		_, err = svc.CreateBooking("userB", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 1,
		})
		assert.NoError(t, err)
	})

	t.Run("blocked slot window conflicts", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		st := testStation("st1", "owner1", 2, 10)
		st.BlockedSlots = []models.BlockedSlot{{
			SlotNumber: 1,
			StartTime:  base,
			EndTime:    base.Add(2 * time.Hour),
			Reason:     "Maintenance",
		}}
		sRepo.add(st)

		_, err := svc.CreateBooking("userA", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base.Add(time.Hour), Duration: 1,
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)

		// The block only covers slot 1.
		_, err = svc.CreateBooking("userA", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 2, StartTime: base.Add(time.Hour), Duration: 1,
		})
		assert.NoError(t, err)
	})
}

func TestIsSlotAvailable(t *testing.T) {
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	svc, _, sRepo := newTestService()
	sRepo.add(testStation("st1", "owner1", 2, 10))

	_, err := svc.CreateBooking("userA", models.RoleEVOwner, CreateBookingInput{
		StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 1,
	})
	require.NoError(t, err)

	free, err := svc.IsSlotAvailable("st1", 1, base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, free)

	free, err = svc.IsSlotAvailable("st1", 2, base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, free)

	_, err = svc.IsSlotAvailable("st1", 0, base, base.Add(time.Hour))
	var ve ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.IsSlotAvailable("missing", 1, base, base.Add(time.Hour))
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestListAvailableSlots(t *testing.T) {
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	t.Run("occupied and available slots partition the slot range", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		st := testStation("st1", "owner1", 4, 10)
		st.BlockedSlots = []models.BlockedSlot{{
			SlotNumber: 4, StartTime: base, EndTime: base.Add(time.Hour),
		}}
		sRepo.add(st)

		_, err := svc.CreateBooking("userA", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 2, StartTime: base, Duration: 1,
		})
		require.NoError(t, err)

		result, err := svc.ListAvailableSlots("st1", base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, result.AvailableSlots)
		assert.Equal(t, 4, result.TotalSlots)
	})

	t.Run("rejects inverted windows", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))

		_, err := svc.ListAvailableSlots("st1", base, base)
		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("unknown station", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.ListAvailableSlots("missing", base, base.Add(time.Hour))
		assert.ErrorIs(t, err, ErrStationNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	setup := func(t *testing.T) (*DefaultBookingService, *models.Booking) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))
		b, err := svc.CreateBooking("user1", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 1,
		})
		require.NoError(t, err)
		return svc, b
	}

	t.Run("station owner drives booked through completed", func(t *testing.T) {
		svc, b := setup(t)

		updated, err := svc.UpdateStatus(b.ID, models.BookingStatusInProgress, "owner1", models.RoleStationOwner)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusInProgress, updated.Status)

		updated, err = svc.UpdateStatus(b.ID, models.BookingStatusCompleted, "owner1", models.RoleStationOwner)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCompleted, updated.Status)
	})

	t.Run("skipping a state is rejected", func(t *testing.T) {
		svc, b := setup(t)
		_, err := svc.UpdateStatus(b.ID, models.BookingStatusCompleted, "owner1", models.RoleStationOwner)
		var te InvalidTransitionError
		assert.ErrorAs(t, err, &te)
	})

	t.Run("cancelling via status update is rejected", func(t *testing.T) {
		svc, b := setup(t)
		_, err := svc.UpdateStatus(b.ID, models.BookingStatusCancelled, "owner1", models.RoleStationOwner)
		var te InvalidTransitionError
		assert.ErrorAs(t, err, &te)
	})

	t.Run("ev owner cannot drive the state machine", func(t *testing.T) {
		svc, b := setup(t)
		_, err := svc.UpdateStatus(b.ID, models.BookingStatusInProgress, "user1", models.RoleEVOwner)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("a different station owner is rejected", func(t *testing.T) {
		svc, b := setup(t)
		_, err := svc.UpdateStatus(b.ID, models.BookingStatusInProgress, "owner2", models.RoleStationOwner)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestCancel(t *testing.T) {
	makeBooking := func(t *testing.T, svc *DefaultBookingService, start time.Time) *models.Booking {
		b, err := svc.CreateBooking("user1", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: start, Duration: 1,
		})
		require.NoError(t, err)
		return b
	}

	t.Run("cancels while more than an hour remains", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))
		b := makeBooking(t, svc, time.Now().Add(3*time.Hour))

		cancelled, err := svc.Cancel(b.ID, "user1")
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	})

	t.Run("rejects cancellation inside the cutoff", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))
		b := makeBooking(t, svc, time.Now().Add(30*time.Minute))

		_, err := svc.Cancel(b.ID, "user1")
		var pe PolicyError
		assert.ErrorAs(t, err, &pe)
	})

	t.Run("only the booking owner may cancel", func(t *testing.T) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))
		b := makeBooking(t, svc, time.Now().Add(3*time.Hour))

		_, err := svc.Cancel(b.ID, "someone-else")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("only booked bookings can be cancelled", func(t *testing.T) {
		svc, bRepo, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))
		b := makeBooking(t, svc, time.Now().Add(3*time.Hour))
		require.NoError(t, bRepo.SetStatus(b.ID, models.BookingStatusInProgress))

		_, err := svc.Cancel(b.ID, "user1")
		var te InvalidTransitionError
		assert.ErrorAs(t, err, &te)
	})
}

func TestAddReview(t *testing.T) {
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	setup := func(t *testing.T, status string) (*DefaultBookingService, *models.Booking, *fakeBookingRepo) {
		svc, bRepo, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))
		b, err := svc.CreateBooking("user1", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 1,
		})
		require.NoError(t, err)
		require.NoError(t, bRepo.SetStatus(b.ID, status))
		return svc, b, bRepo
	}

	t.Run("sets rating and review once", func(t *testing.T) {
		svc, b, _ := setup(t, models.BookingStatusCompleted)

		reviewed, err := svc.AddReview(b.ID, "user1", 5, "great chargers")
		require.NoError(t, err)
		assert.Equal(t, 5, reviewed.Rating)
		assert.Equal(t, "great chargers", reviewed.Review)

		_, err = svc.AddReview(b.ID, "user1", 3, "changed my mind")
		var pe PolicyError
		assert.ErrorAs(t, err, &pe)
	})

	t.Run("rating must be 1 to 5", func(t *testing.T) {
		svc, b, _ := setup(t, models.BookingStatusCompleted)
		var ve ValidationError

		_, err := svc.AddReview(b.ID, "user1", 0, "")
		assert.ErrorAs(t, err, &ve)
		_, err = svc.AddReview(b.ID, "user1", 6, "")
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("only completed bookings can be reviewed", func(t *testing.T) {
		svc, b, _ := setup(t, models.BookingStatusBooked)
		_, err := svc.AddReview(b.ID, "user1", 4, "")
		var pe PolicyError
		assert.ErrorAs(t, err, &pe)
	})

	t.Run("only the booking owner may review", func(t *testing.T) {
		svc, b, _ := setup(t, models.BookingStatusCompleted)
		_, err := svc.AddReview(b.ID, "someone-else", 4, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestOwnershipScopedReads(t *testing.T) {
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	setup := func(t *testing.T) (*DefaultBookingService, *models.Booking) {
		svc, _, sRepo := newTestService()
		sRepo.add(testStation("st1", "owner1", 2, 10))
		sRepo.add(testStation("st2", "owner2", 2, 10))
		b, err := svc.CreateBooking("user1", models.RoleEVOwner, CreateBookingInput{
			StationID: "st1", SlotNumber: 1, StartTime: base, Duration: 1,
		})
		require.NoError(t, err)
		return svc, b
	}

	t.Run("booking owner and station owner can read", func(t *testing.T) {
		svc, b := setup(t)

		_, err := svc.GetByID(b.ID, "user1", models.RoleEVOwner)
		assert.NoError(t, err)
		_, err = svc.GetByID(b.ID, "owner1", models.RoleStationOwner)
		assert.NoError(t, err)
	})

	t.Run("strangers cannot read", func(t *testing.T) {
		svc, b := setup(t)

		_, err := svc.GetByID(b.ID, "user2", models.RoleEVOwner)
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = svc.GetByID(b.ID, "owner2", models.RoleStationOwner)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner listing is scoped to owned stations", func(t *testing.T) {
		svc, _ := setup(t)

		bookings, total, err := svc.ListForOwner("owner1", bookingRepo.Filter{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, bookings, 1)
		assert.Equal(t, "st1", bookings[0].Station)

		// Filtering by a foreign station is refused outright.
		_, _, err = svc.ListForOwner("owner1", bookingRepo.Filter{Station: "st2", Page: 1, Limit: 10})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("per-station listing checks ownership", func(t *testing.T) {
		svc, _ := setup(t)

		_, _, err := svc.ListForStation("owner2", "st1", bookingRepo.Filter{Page: 1, Limit: 10})
		assert.ErrorIs(t, err, ErrStationNotFound)
	})
}
