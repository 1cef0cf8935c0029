package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/queue"
)

// ExpiringLister provides lookups of memberships approaching their end
// date.
type ExpiringLister interface {
	ExpiringRegistrations(ctx context.Context, from, to time.Time) ([]model.Registration, error)
}

// ExpirySweeper publishes renewal reminders for registrations that
// lapse within the warning horizon.  It never mutates state: expiry
// itself is derived from end_date, so the sweep only notifies.
type ExpirySweeper struct {
	store   ExpiringLister
	horizon int
	publish func(ctx context.Context, ev queue.RegistrationExpiringEvent) error
}

// NewExpirySweeper builds a sweeper with a 7-day warning horizon.
func NewExpirySweeper(store ExpiringLister) *ExpirySweeper {
	return &ExpirySweeper{
		store:   store,
		horizon: 7,
		publish: queue.PublishRegistrationExpiring,
	}
}

// SweepOnce publishes one reminder per registration ending within the
// horizon, today included.  Returns the number of reminders sent; a
// publish failure is logged and skipped so one bad message cannot
// starve the rest.
func (s *ExpirySweeper) SweepOnce(ctx context.Context, today time.Time) (int, error) {
	today = model.Date(today)
	regs, err := s.store.ExpiringRegistrations(ctx, today, today.AddDate(0, 0, s.horizon))
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, g := range regs {
		ev := queue.RegistrationExpiringEvent{
			RegistrationID: g.ID,
			MemberID:       g.MemberID,
			EndDate:        model.Date(g.EndDate).Format(model.DateLayout),
			DaysLeft:       int(model.Date(g.EndDate).Sub(today).Hours() / 24),
		}
		if err := s.publish(ctx, ev); err != nil {
			log.Printf("expiry sweep: publish registration=%d: %v", g.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// Run sweeps immediately and then once per day until ctx is done.
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		if n, err := s.SweepOnce(ctx, model.Today()); err != nil {
			log.Printf("expiry sweep: %v", err)
		} else if n > 0 {
			log.Printf("expiry sweep: %d reminders queued", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
