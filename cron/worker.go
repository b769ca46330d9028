package cron

import (
	"context"
	"log"
	"time"

	"chargebay/config"
	bookingRepo "chargebay/database/repository/booking"
	stationRepo "chargebay/database/repository/station"

	"github.com/hibiken/asynq"
)

const TypeReconcileSlots = "station:reconcile_slots"

// InitReconcileWorker runs the slot-counter reconciliation worker and its
// scheduler in the background. The counter is a display cache maintained by
// payment side effects; this job periodically recomputes it from the booking
// set so drift cannot accumulate.
func InitReconcileWorker(stations stationRepo.StationRepository, bookings bookingRepo.BookingRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReconcileSlots, handleReconcileTask(stations, bookings))

	go func() {
		log.Println("[SlotReconciler] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SlotReconciler] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SlotReconciler] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts, nil)
	interval := config.AppConfig.ReconcileInterval
	if interval == "" {
		interval = "@every 10m"
	}
	if _, err := scheduler.Register(interval, asynq.NewTask(TypeReconcileSlots, nil)); err != nil {
		log.Printf("[SlotReconciler] failed to register schedule %q: %v", interval, err)
		return
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[SlotReconciler] scheduler stopped: %v", err)
		}
	}()
}

// handleReconcileTask rewrites each active station's availableSlots to
// totalSlots minus its active paid bookings, clamped to [0, totalSlots].
func handleReconcileTask(stations stationRepo.StationRepository, bookings bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		list, err := stations.ListActive(nil)
		if err != nil {
			log.Printf("[SlotReconciler] failed to list stations: %v", err)
			return err
		}

		for _, st := range list {
			occupied, err := bookings.CountActivePaidByStation(st.ID)
			if err != nil {
				log.Printf("[SlotReconciler] failed to count bookings for %s: %v", st.ID, err)
				continue
			}

			available := st.TotalSlots - int(occupied)
			if available < 0 {
				available = 0
			}
			if available > st.TotalSlots {
				available = st.TotalSlots
			}
			if available == st.AvailableSlots {
				continue
			}

			if err := stations.SetAvailableSlots(st.ID, available); err != nil {
				log.Printf("[SlotReconciler] failed to update %s: %v", st.ID, err)
				continue
			}
			log.Printf("[SlotReconciler] corrected %s availableSlots %d -> %d", st.ID, st.AvailableSlots, available)
		}
		return nil
	}
}
