package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

func date(s string) time.Time {
	t, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRegistration_Activate(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr error
		want    string
	}{
		{name: "pending activates", status: model.RegistrationPendingPayment, want: model.RegistrationActive},
		{name: "active is a repeat", status: model.RegistrationActive, wantErr: model.ErrNotActive, want: model.RegistrationActive},
		{name: "canceled is terminal", status: model.RegistrationCanceled, wantErr: model.ErrAlreadyCanceled, want: model.RegistrationCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := model.Registration{Status: tt.status}
			err := r.Activate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Activate() error = %v, want %v", err, tt.wantErr)
			}
			if r.Status != tt.want {
				t.Errorf("status after Activate() = %q, want %q", r.Status, tt.want)
			}
		})
	}
}

func TestRegistration_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		reason  string
		wantErr error
	}{
		{name: "active cancels", status: model.RegistrationActive, reason: "moving away"},
		{name: "pending cancels", status: model.RegistrationPendingPayment, reason: "changed mind"},
		{name: "reason required", status: model.RegistrationActive, reason: "", wantErr: model.ErrReasonRequired},
		{name: "cancel is irreversible", status: model.RegistrationCanceled, reason: "again", wantErr: model.ErrAlreadyCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := model.Registration{Status: tt.status}
			err := r.Cancel(tt.reason)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Cancel() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if r.Status != model.RegistrationCanceled {
					t.Errorf("status = %q, want CANCELED", r.Status)
				}
				if r.CancelReason == nil || *r.CancelReason != tt.reason {
					t.Errorf("CancelReason = %v, want %q", r.CancelReason, tt.reason)
				}
			}
		})
	}
}

// A canceled registration can never return to ACTIVE through any
// transition.
func TestRegistration_TerminalStateIsFinal(t *testing.T) {
	r := model.Registration{Status: model.RegistrationActive}
	if err := r.Cancel("done"); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if err := r.Activate(); !errors.Is(err, model.ErrAlreadyCanceled) {
		t.Errorf("Activate() after cancel error = %v, want ErrAlreadyCanceled", err)
	}
	if err := r.Extend(1, date("2025-01-01")); !errors.Is(err, model.ErrNotActive) {
		t.Errorf("Extend() after cancel error = %v, want ErrNotActive", err)
	}
	if r.Status != model.RegistrationCanceled {
		t.Errorf("status = %q, want CANCELED", r.Status)
	}
}

func TestRegistration_IsExpired(t *testing.T) {
	today := date("2025-06-15")
	tests := []struct {
		name   string
		status string
		end    time.Time
		want   bool
	}{
		{name: "active within range", status: model.RegistrationActive, end: date("2025-06-30"), want: false},
		{name: "active ending today", status: model.RegistrationActive, end: date("2025-06-15"), want: false},
		{name: "active past end date", status: model.RegistrationActive, end: date("2025-06-14"), want: true},
		{name: "canceled never expires", status: model.RegistrationCanceled, end: date("2025-01-01"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := model.Registration{Status: tt.status, StartDate: date("2025-01-01"), EndDate: tt.end}
			if got := r.IsExpired(today); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistration_Extend(t *testing.T) {
	today := date("2025-06-15")

	r := model.Registration{Status: model.RegistrationActive, StartDate: date("2025-06-01"), EndDate: date("2025-06-30")}
	if err := r.Extend(2, today); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}
	if want := date("2025-08-30"); !r.EndDate.Equal(want) {
		t.Errorf("EndDate = %s, want %s", r.EndDate.Format(model.DateLayout), want.Format(model.DateLayout))
	}

	expired := model.Registration{Status: model.RegistrationActive, StartDate: date("2025-01-01"), EndDate: date("2025-02-01")}
	if err := expired.Extend(1, today); !errors.Is(err, model.ErrNotActive) {
		t.Errorf("Extend() on expired error = %v, want ErrNotActive", err)
	}

	pending := model.Registration{Status: model.RegistrationPendingPayment, EndDate: date("2025-07-01")}
	if err := pending.Extend(1, today); !errors.Is(err, model.ErrNotActive) {
		t.Errorf("Extend() on pending error = %v, want ErrNotActive", err)
	}
}

func TestRegistration_Overlaps(t *testing.T) {
	r := model.Registration{StartDate: date("2025-06-01"), EndDate: date("2025-06-30")}
	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{name: "fully inside", start: date("2025-06-10"), end: date("2025-06-20"), want: true},
		{name: "touching at end", start: date("2025-06-30"), end: date("2025-07-15"), want: true},
		{name: "touching at start", start: date("2025-05-15"), end: date("2025-06-01"), want: true},
		{name: "before", start: date("2025-05-01"), end: date("2025-05-31"), want: false},
		{name: "after", start: date("2025-07-01"), end: date("2025-07-31"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Overlaps(tt.start, tt.end); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v",
					tt.start.Format(model.DateLayout), tt.end.Format(model.DateLayout), got, tt.want)
			}
		})
	}
}
