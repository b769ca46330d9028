package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	bookingRepo "chargebay/database/repository/booking"
	"chargebay/models"
	bookingSvc "chargebay/services/booking"
	"chargebay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingSvc is wired in main before the router starts.
var BookingSvc bookingSvc.BookingService

const availabilityCacheTTL = 30 * time.Second

func handleBookingError(c *gin.Context, logger *zap.Logger, err error) {
	var ve bookingSvc.ValidationError
	var pe bookingSvc.PolicyError
	var te bookingSvc.InvalidTransitionError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, bookingSvc.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, bookingSvc.ErrStationNotFound), errors.Is(err, bookingSvc.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, bookingSvc.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &te):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": te.Error()})
	case errors.As(err, &pe):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": pe.Message})
	default:
		logger.Error("Booking operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bookingFilterFromQuery reads the shared pagination and filter query params.
func bookingFilterFromQuery(c *gin.Context) bookingRepo.Filter {
	f := bookingRepo.Filter{
		Station:       c.Query("station"),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		Page:          1,
		Limit:         10,
	}
	if p, err := strconv.ParseInt(c.Query("page"), 10, 64); err == nil && p > 0 {
		f.Page = p
	}
	if l, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && l > 0 && l <= 100 {
		f.Limit = l
	}
	return f
}

func pagedResponse(bookings []models.Booking, total int64, f bookingRepo.Filter) gin.H {
	totalPages := total / f.Limit
	if total%f.Limit != 0 {
		totalPages++
	}
	return gin.H{
		"bookings":    bookings,
		"total":       total,
		"totalPages":  totalPages,
		"currentPage": f.Page,
	}
}

// CreateBookingHandler reserves a slot for the authenticated EV owner.
func CreateBookingHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		StationID       string             `json:"stationId" binding:"required"`
		SlotNumber      int                `json:"slotNumber" binding:"required"`
		StartTime       time.Time          `json:"startTime" binding:"required"`
		Duration        float64            `json:"duration" binding:"required"`
		VehicleInfo     models.VehicleInfo `json:"vehicleInfo"`
		SpecialRequests string             `json:"specialRequests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	b, err := BookingSvc.CreateBooking(c.GetString("userID"), c.GetString("role"), bookingSvc.CreateBookingInput{
		StationID:       req.StationID,
		SlotNumber:      req.SlotNumber,
		StartTime:       req.StartTime,
		Duration:        req.Duration,
		VehicleInfo:     req.VehicleInfo,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		handleBookingError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetMyBookingsHandler lists the authenticated EV owner's bookings.
func GetMyBookingsHandler(c *gin.Context) {
	logger := getLogger(c)

	f := bookingFilterFromQuery(c)
	bookings, total, err := BookingSvc.ListForUser(c.GetString("userID"), f)
	if err != nil {
		logger.Error("Failed to list bookings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, pagedResponse(bookings, total, f))
}

// GetOwnerBookingsHandler lists bookings across all of the owner's stations.
func GetOwnerBookingsHandler(c *gin.Context) {
	logger := getLogger(c)

	f := bookingFilterFromQuery(c)
	bookings, total, err := BookingSvc.ListForOwner(c.GetString("userID"), f)
	if err != nil {
		handleBookingError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse(bookings, total, f))
}

// GetStationBookingsHandler lists bookings for one owned station.
func GetStationBookingsHandler(c *gin.Context) {
	logger := getLogger(c)

	f := bookingFilterFromQuery(c)
	bookings, total, err := BookingSvc.ListForStation(c.GetString("userID"), c.Param("stationId"), f)
	if err != nil {
		handleBookingError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse(bookings, total, f))
}

// GetBookingHandler returns one booking, visible to its EV owner or the
// owning station's owner.
func GetBookingHandler(c *gin.Context) {
	logger := getLogger(c)

	b, err := BookingSvc.GetByID(c.Param("id"), c.GetString("userID"), c.GetString("role"))
	if err != nil {
		handleBookingError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBookingStatusHandler drives the booking state machine.
func UpdateBookingStatusHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	b, err := BookingSvc.UpdateStatus(c.Param("id"), req.Status, c.GetString("userID"), c.GetString("role"))
	if err != nil {
		handleBookingError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBookingHandler cancels a booking, subject to the cutoff window.
func CancelBookingHandler(c *gin.Context) {
	logger := getLogger(c)

	b, err := BookingSvc.Cancel(c.Param("id"), c.GetString("userID"))
	if err != nil {
		handleBookingError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// AddReviewHandler sets the one-shot rating and review on a completed booking.
func AddReviewHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Rating int    `json:"rating" binding:"required"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	b, err := BookingSvc.AddReview(c.Param("id"), c.GetString("userID"), req.Rating, req.Review)
	if err != nil {
		handleBookingError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetAvailabilityHandler lists free slot numbers for a station and window.
// Responses are cached in Redis for a short TTL since this is the hottest
// public read.
func GetAvailabilityHandler(c *gin.Context) {
	logger := getLogger(c)

	stationID := c.Param("stationId")
	start, err := time.Parse(time.RFC3339, c.Query("startTime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startTime must be RFC3339"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("endTime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endTime must be RFC3339"})
		return
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("availability:%s:%d:%d", stationID, start.Unix(), end.Unix())
	if cache := utils.GetCacheClient(); cache != nil {
		if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	result, err := BookingSvc.ListAvailableSlots(stationID, start, end)
	if err != nil {
		handleBookingError(c, logger, err)
		return
	}

	if cache := utils.GetCacheClient(); cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := cache.Set(ctx, cacheKey, data, availabilityCacheTTL).Err(); err != nil {
				logger.Warn("Failed to cache availability", zap.Error(err))
			}
		}
	}
	c.JSON(http.StatusOK, result)
}
