package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
	"github.com/iliyamo/gym-class-reservation/internal/queue"
)

type expiringListerFunc func(ctx context.Context, from, to time.Time) ([]model.Registration, error)

func (f expiringListerFunc) ExpiringRegistrations(ctx context.Context, from, to time.Time) ([]model.Registration, error) {
	return f(ctx, from, to)
}

func TestSweepOnce(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse(model.DateLayout, s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		return d
	}
	today := day("2025-06-10")

	regs := []model.Registration{
		{ID: 1, MemberID: 11, EndDate: day("2025-06-10")},
		{ID: 2, MemberID: 12, EndDate: day("2025-06-13")},
		{ID: 3, MemberID: 13, EndDate: day("2025-06-17")},
	}

	var gotFrom, gotTo time.Time
	var published []queue.RegistrationExpiringEvent
	s := &ExpirySweeper{
		store: expiringListerFunc(func(_ context.Context, from, to time.Time) ([]model.Registration, error) {
			gotFrom, gotTo = from, to
			return regs, nil
		}),
		horizon: 7,
		publish: func(_ context.Context, ev queue.RegistrationExpiringEvent) error {
			published = append(published, ev)
			return nil
		},
	}

	sent, err := s.SweepOnce(context.Background(), today)
	if err != nil {
		t.Fatalf("SweepOnce() error = %v", err)
	}
	if sent != 3 {
		t.Fatalf("SweepOnce() = %d, want 3", sent)
	}
	if gotFrom.Format(model.DateLayout) != "2025-06-10" || gotTo.Format(model.DateLayout) != "2025-06-17" {
		t.Errorf("queried window [%s, %s], want [2025-06-10, 2025-06-17]",
			gotFrom.Format(model.DateLayout), gotTo.Format(model.DateLayout))
	}
	wantDays := []int{0, 3, 7}
	for i, ev := range published {
		if ev.DaysLeft != wantDays[i] {
			t.Errorf("event %d DaysLeft = %d, want %d", i, ev.DaysLeft, wantDays[i])
		}
	}
	if published[1].EndDate != "2025-06-13" || published[1].MemberID != 12 {
		t.Errorf("event 1 = %+v, want end 2025-06-13 for member 12", published[1])
	}
}

func TestSweepOncePublishFailureSkips(t *testing.T) {
	regs := []model.Registration{
		{ID: 1, MemberID: 11, EndDate: time.Now().AddDate(0, 0, 1)},
		{ID: 2, MemberID: 12, EndDate: time.Now().AddDate(0, 0, 2)},
	}
	s := &ExpirySweeper{
		store: expiringListerFunc(func(context.Context, time.Time, time.Time) ([]model.Registration, error) {
			return regs, nil
		}),
		horizon: 7,
		publish: func(_ context.Context, ev queue.RegistrationExpiringEvent) error {
			if ev.RegistrationID == 1 {
				return errors.New("broker down")
			}
			return nil
		},
	}

	sent, err := s.SweepOnce(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("SweepOnce() error = %v", err)
	}
	if sent != 1 {
		t.Fatalf("SweepOnce() = %d, want 1", sent)
	}
}
