package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

func TestMonthRange(t *testing.T) {
	first, last, err := model.MonthRange("2025-02")
	if err != nil {
		t.Fatalf("MonthRange() error = %v", err)
	}
	if got := first.Format(model.DateLayout); got != "2025-02-01" {
		t.Errorf("first = %s, want 2025-02-01", got)
	}
	if got := last.Format(model.DateLayout); got != "2025-02-28" {
		t.Errorf("last = %s, want 2025-02-28", got)
	}

	if _, _, err := model.MonthRange("2025-13"); !errors.Is(err, model.ErrInvalidMonth) {
		t.Errorf("MonthRange(2025-13) error = %v, want ErrInvalidMonth", err)
	}
	if _, _, err := model.MonthRange("march"); !errors.Is(err, model.ErrInvalidMonth) {
		t.Errorf("MonthRange(march) error = %v, want ErrInvalidMonth", err)
	}
}

func TestPerformanceBonus(t *testing.T) {
	tests := []struct {
		students int
		want     int64
	}{
		{students: 0, want: 0},
		{students: 14, want: 0},
		{students: 15, want: 200_000},
		{students: 30, want: 500_000},
		{students: 49, want: 500_000},
		{students: 50, want: 1_000_000},
	}
	for _, tt := range tests {
		if got := model.PerformanceBonus(tt.students); got != tt.want {
			t.Errorf("PerformanceBonus(%d) = %d, want %d", tt.students, got, tt.want)
		}
	}
}

func TestAttendanceBonus(t *testing.T) {
	tests := []struct {
		rate float64
		want int64
	}{
		{rate: 0, want: 0},
		{rate: 0.74, want: 0},
		{rate: 0.75, want: 150_000},
		{rate: 0.90, want: 300_000},
		{rate: 1.0, want: 300_000},
	}
	for _, tt := range tests {
		if got := model.AttendanceBonus(tt.rate); got != tt.want {
			t.Errorf("AttendanceBonus(%.2f) = %d, want %d", tt.rate, got, tt.want)
		}
	}
}

func TestCommissionBreakdown_Total(t *testing.T) {
	b := model.CommissionBreakdown{
		PackageCommissionCents:  100,
		ClassCommissionCents:    200,
		PersonalCommissionCents: 300,
		PerformanceBonusCents:   400,
		AttendanceBonusCents:    500,
	}
	if got := b.TotalCommissionCents(); got != 1500 {
		t.Errorf("TotalCommissionCents() = %d, want 1500", got)
	}
}

func TestSalaryRecord_MarkPaid(t *testing.T) {
	rec := model.SalaryRecord{}
	when := time.Date(2025, 4, 3, 15, 30, 0, 0, time.UTC)
	if err := rec.MarkPaid(when); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if !rec.IsPaid() {
		t.Fatal("IsPaid() = false after MarkPaid")
	}
	if got := rec.PaymentDate.Format(model.DateLayout); got != "2025-04-03" {
		t.Errorf("PaymentDate = %s, want 2025-04-03", got)
	}
	if err := rec.MarkPaid(when); !errors.Is(err, model.ErrAlreadyPaid) {
		t.Errorf("second MarkPaid() error = %v, want ErrAlreadyPaid", err)
	}
}
