package jobs

import (
	"context"
	"log/slog"
	"time"

	"placemate/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs the housekeeping jobs. Currently only the invite purge:
// expired unused invites are dead rows, redeemed ones are kept as a join
// audit trail.
type Scheduler struct {
	scheduler  gocron.Scheduler
	inviteRepo repositories.InviteRepository
}

func NewScheduler(inviteRepo repositories.InviteRepository) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler:  scheduler,
		inviteRepo: inviteRepo,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(s.purgeExpiredInvites, context.Background()),
		gocron.WithName("invite-purge"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	slog.Info("starting background scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	slog.Info("stopping background scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) purgeExpiredInvites(ctx context.Context) {
	purged, err := s.inviteRepo.DeleteExpiredUnused(ctx)
	if err != nil {
		slog.Error("invite purge failed", "error", err)
		return
	}
	if purged > 0 {
		slog.Info("purged expired invites", "count", purged)
	}
}
