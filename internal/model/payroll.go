package model

import (
	"errors"
	"time"
)

// MonthLayout is the format of payroll months ("2025-03").
const MonthLayout = "2006-01"

// ErrInvalidMonth is returned when a month string does not parse as
// YYYY-MM.
var ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

// MonthRange converts a "YYYY-MM" string into the first and last
// calendar dates of that month (both inclusive, UTC midnight).
func MonthRange(month string) (time.Time, time.Time, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	first := Date(t)
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// CommissionBreakdown carries the independently computed components of
// a trainer's monthly commission.  Each component must remain
// individually retrievable for audit and display; Total sums them.
type CommissionBreakdown struct {
	TrainerID               uint64  `json:"trainer_id"`
	Month                   string  `json:"month"`
	PackageCommissionCents  int64   `json:"package_commission_cents"`
	ClassCommissionCents    int64   `json:"class_commission_cents"`
	PersonalCommissionCents int64   `json:"personal_commission_cents"`
	PerformanceBonusCents   int64   `json:"performance_bonus_cents"`
	AttendanceBonusCents    int64   `json:"attendance_bonus_cents"`
	DistinctStudents        int     `json:"distinct_students"`
	SessionsTaught          int     `json:"sessions_taught"`
	AttendanceRate          float64 `json:"attendance_rate"`
}

// TotalCommissionCents sums every commission component.
func (b CommissionBreakdown) TotalCommissionCents() int64 {
	return b.PackageCommissionCents + b.ClassCommissionCents +
		b.PersonalCommissionCents + b.PerformanceBonusCents + b.AttendanceBonusCents
}

// Performance bonus tiers, keyed on the number of distinct students a
// trainer served in the month.
const (
	perfTier1Students = 15
	perfTier2Students = 30
	perfTier3Students = 50
	perfTier1Cents    = 200_000
	perfTier2Cents    = 500_000
	perfTier3Cents    = 1_000_000
)

// PerformanceBonus returns the tiered bonus for serving the given
// number of distinct students.
func PerformanceBonus(distinctStudents int) int64 {
	switch {
	case distinctStudents >= perfTier3Students:
		return perfTier3Cents
	case distinctStudents >= perfTier2Students:
		return perfTier2Cents
	case distinctStudents >= perfTier1Students:
		return perfTier1Cents
	default:
		return 0
	}
}

// Attendance bonus tiers, keyed on the attended/booked ratio across
// the trainer's sessions in the month.
const (
	attTier1Rate  = 0.75
	attTier2Rate  = 0.90
	attTier1Cents = 150_000
	attTier2Cents = 300_000
)

// AttendanceBonus returns the tiered bonus for the given attendance
// rate.  Rates outside [0, 1] are clamped by the caller's arithmetic;
// a zero-session month yields rate 0 and no bonus.
func AttendanceBonus(rate float64) int64 {
	switch {
	case rate >= attTier2Rate:
		return attTier2Cents
	case rate >= attTier1Rate:
		return attTier1Cents
	default:
		return 0
	}
}

// SalaryRecord is one trainer's computed pay for one calendar month.
// At most one record exists per (trainer, month); records are created
// only by the payroll aggregator, never by direct user action.  Once
// PaymentDate is set the record is immutable; corrections require a
// new adjustment record, not mutation.
type SalaryRecord struct {
	ID                      uint64     // salary_records.id
	TrainerID               uint64     // salary_records.trainer_id
	Month                   string     // salary_records.month ("YYYY-MM")
	BaseSalaryCents         int64      // salary_records.base_salary_cents
	PackageCommissionCents  int64      // salary_records.package_commission_cents
	ClassCommissionCents    int64      // salary_records.class_commission_cents
	PersonalCommissionCents int64      // salary_records.personal_commission_cents
	PerformanceBonusCents   int64      // salary_records.performance_bonus_cents
	AttendanceBonusCents    int64      // salary_records.attendance_bonus_cents
	TotalCents              int64      // salary_records.total_cents
	PaymentDate             *time.Time // salary_records.payment_date (null = unpaid)
	CreatedAt               time.Time  // salary_records.created_at
}

// IsPaid reports whether the record has been paid out.
func (s *SalaryRecord) IsPaid() bool { return s.PaymentDate != nil }

// MarkPaid sets the payment date on an unpaid record.  Paying twice
// reports ErrAlreadyPaid.
func (s *SalaryRecord) MarkPaid(when time.Time) error {
	if s.IsPaid() {
		return ErrAlreadyPaid
	}
	w := Date(when)
	s.PaymentDate = &w
	return nil
}
