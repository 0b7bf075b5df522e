package service

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// SweepPolicy says how long rooms may sit untouched before they are torn down.
type SweepPolicy struct {
	Interval    time.Duration
	IdleTTL     time.Duration
	FinishedTTL time.Duration
}

// Sweep deletes expired rooms and returns their codes.
func (s *Service) Sweep(ctx context.Context, now time.Time, policy SweepPolicy) []string {
	var removed []string
	for _, code := range s.registry.Expired(now, policy.IdleTTL, policy.FinishedTTL) {
		if err := s.DeleteRoom(ctx, code); err != nil {
			continue
		}
		removed = append(removed, code)
	}
	return removed
}

// StartSweeper runs Sweep every policy.Interval. onRemoved is called with each removed
// room code so connections can be dropped. The caller shuts the scheduler down.
func (s *Service) StartSweeper(policy SweepPolicy, onRemoved func(code string)) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(policy.Interval),
		gocron.NewTask(func() {
			removed := s.Sweep(context.Background(), time.Now(), policy)
			if len(removed) == 0 {
				return
			}
			s.logger.Info("rooms swept", zap.Strings("rooms", removed))
			if onRemoved != nil {
				for _, code := range removed {
					onRemoved(code)
				}
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
