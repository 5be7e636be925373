package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"verdea/config"
	bookingRepo "verdea/database/repository/booking"
	scheduleRepo "verdea/database/repository/schedule"
	"verdea/services/schedule"

	"github.com/hibiken/asynq"
)

const (
	TypeHorizonMaintainAll = "schedule:maintain_all"
	TypeHorizonMaintain    = "schedule:maintain"
	TypeExpireSweep        = "booking:expire_sweep"
)

type horizonPayload struct {
	GardenerID string `json:"gardenerId"`
}

// InitScheduleWorker runs the async worker and its periodic scheduler in
// background. It extends every gardener's materialized horizon nightly and
// sweeps overdue pending bookings as a backstop to lazy expiry on reads.
func InitScheduleWorker(projector schedule.ScheduleProjector, schedules scheduleRepo.ScheduleRepository, bookings bookingRepo.BookingRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	client := asynq.NewClient(redisOpts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeHorizonMaintainAll, handleMaintainAll(schedules, client))
	mux.HandleFunc(TypeHorizonMaintain, handleMaintain(projector))
	mux.HandleFunc(TypeExpireSweep, handleExpireSweep(bookings))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.Local})
	if _, err := scheduler.Register("@daily", asynq.NewTask(TypeHorizonMaintainAll, nil)); err != nil {
		log.Fatalf("[ScheduleWorker] failed to register horizon maintenance: %v", err)
	}
	if _, err := scheduler.Register("@every 30m", asynq.NewTask(TypeExpireSweep, nil)); err != nil {
		log.Fatalf("[ScheduleWorker] failed to register expire sweep: %v", err)
	}

	go func() {
		log.Println("[ScheduleWorker] 🚀 Starting periodic scheduler...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[ScheduleWorker] scheduler stopped: %v", err)
		}
	}()

	// Start async worker with retry logic.
	go func() {
		log.Println("[ScheduleWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ScheduleWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ScheduleWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleMaintainAll fans the nightly run out into one task per gardener so a
// single bad template cannot stall everyone else's horizon.
func handleMaintainAll(schedules scheduleRepo.ScheduleRepository, client *asynq.Client) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		gardenerIDs, err := schedules.ListGardenerIDs(ctx)
		if err != nil {
			log.Printf("[ScheduleWorker] failed to list gardeners: %v", err)
			return err
		}
		for _, id := range gardenerIDs {
			payload, err := json.Marshal(horizonPayload{GardenerID: id})
			if err != nil {
				return err
			}
			if _, err := client.EnqueueContext(ctx, asynq.NewTask(TypeHorizonMaintain, payload)); err != nil {
				log.Printf("[ScheduleWorker] failed to enqueue maintenance for %s: %v", id, err)
			}
		}
		log.Printf("[ScheduleWorker] horizon maintenance enqueued for %d gardeners", len(gardenerIDs))
		return nil
	}
}

func handleMaintain(projector schedule.ScheduleProjector) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p horizonPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ScheduleWorker] invalid payload: %v", err)
			return err
		}
		if err := projector.Generate(ctx, p.GardenerID, false); err != nil {
			log.Printf("[ScheduleWorker] failed to maintain horizon for %s: %v", p.GardenerID, err)
			return err
		}
		return nil
	}
}

func handleExpireSweep(bookings bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		expired, err := bookings.ExpireStale(ctx, time.Now())
		if err != nil {
			log.Printf("[ScheduleWorker] expire sweep failed: %v", err)
			return err
		}
		if expired > 0 {
			log.Printf("[ScheduleWorker] expired %d stale pending bookings", expired)
		}
		return nil
	}
}
