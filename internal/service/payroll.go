package service

import (
	"context"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// Commission rates.  Percentages are whole-number shares of the
// underlying revenue; the per-session rate is a flat amount in cents.
const (
	packageCommissionPct  = 10
	personalCommissionPct = 20
	perSessionCents       = 50_000
)

// PayrollService generates, prices and settles monthly salary records.
type PayrollService struct {
	store  PayrollStore
	source CommissionSource
}

// NewPayrollService wires the service onto its stores.
func NewPayrollService(store PayrollStore, source CommissionSource) *PayrollService {
	return &PayrollService{store: store, source: source}
}

// CalculateCommission prices one trainer's activity for the month.
// Every component is read and computed independently so the breakdown
// stays auditable figure by figure.
func (s *PayrollService) CalculateCommission(ctx context.Context, trainerID uint64, month string) (*model.CommissionBreakdown, error) {
	from, to, err := model.MonthRange(month)
	if err != nil {
		return nil, err
	}

	var b model.CommissionBreakdown

	pkgRevenue, err := s.source.PackageRevenue(ctx, trainerID, from, to)
	if err != nil {
		return nil, err
	}
	b.PackageCommissionCents = pkgRevenue * packageCommissionPct / 100

	b.SessionsTaught, err = s.source.SessionsTaught(ctx, trainerID, from, to)
	if err != nil {
		return nil, err
	}
	b.ClassCommissionCents = int64(b.SessionsTaught) * perSessionCents

	ptRevenue, err := s.source.PersonalTrainingRevenue(ctx, trainerID, from, to)
	if err != nil {
		return nil, err
	}
	b.PersonalCommissionCents = ptRevenue * personalCommissionPct / 100

	b.DistinctStudents, err = s.source.DistinctStudents(ctx, trainerID, from, to)
	if err != nil {
		return nil, err
	}
	b.PerformanceBonusCents = model.PerformanceBonus(b.DistinctStudents)

	total, attended, err := s.source.Attendance(ctx, trainerID, from, to)
	if err != nil {
		return nil, err
	}
	if total > 0 {
		b.AttendanceRate = float64(attended) / float64(total)
	}
	b.AttendanceBonusCents = model.AttendanceBonus(b.AttendanceRate)

	return &b, nil
}

// GenerateMonthlySalaries creates one salary record per active trainer
// for the month and returns how many were created.  A month that
// already has any record rejects with ErrAlreadyGenerated; generation
// never silently duplicates.
func (s *PayrollService) GenerateMonthlySalaries(ctx context.Context, month string) (int, error) {
	if _, _, err := model.MonthRange(month); err != nil {
		return 0, err
	}
	exists, err := s.store.SalaryMonthExists(ctx, month)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, model.ErrAlreadyGenerated
	}

	trainers, err := s.store.ActiveTrainers(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, tr := range trainers {
		breakdown, err := s.CalculateCommission(ctx, tr.ID, month)
		if err != nil {
			return created, err
		}
		rec := &model.SalaryRecord{
			TrainerID:               tr.ID,
			Month:                   month,
			BaseSalaryCents:         tr.BaseSalaryCents,
			PackageCommissionCents:  breakdown.PackageCommissionCents,
			ClassCommissionCents:    breakdown.ClassCommissionCents,
			PersonalCommissionCents: breakdown.PersonalCommissionCents,
			PerformanceBonusCents:   breakdown.PerformanceBonusCents,
			AttendanceBonusCents:    breakdown.AttendanceBonusCents,
		}
		rec.TotalCents = rec.BaseSalaryCents + breakdown.TotalCommissionCents()
		if err := s.store.InsertSalary(ctx, rec); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// PaySalary stamps the record's payment date.  Paid records are final;
// a repeat attempt rejects with ErrAlreadyPaid.
func (s *PayrollService) PaySalary(ctx context.Context, id uint64) (*model.SalaryRecord, error) {
	rec, err := s.store.Salary(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := rec.MarkPaid(now); err != nil {
		return nil, err
	}
	if err := s.store.SetSalaryPaid(ctx, id, now); err != nil {
		return nil, err
	}
	return rec, nil
}

// PayOutcome reports one record's result inside a bulk payout.
type PayOutcome struct {
	SalaryID uint64 `json:"salary_id"`
	Paid     bool   `json:"paid"`
	Error    string `json:"error,omitempty"`
}

// PayAllForMonth settles every unpaid record of the month one by one.
// There is no cross-record atomicity: each record succeeds or fails on
// its own and the caller gets the full ledger of outcomes.
func (s *PayrollService) PayAllForMonth(ctx context.Context, month string) ([]PayOutcome, error) {
	records, err := s.store.SalariesByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	outcomes := make([]PayOutcome, 0, len(records))
	for _, rec := range records {
		out := PayOutcome{SalaryID: rec.ID}
		if _, err := s.PaySalary(ctx, rec.ID); err != nil {
			out.Error = err.Error()
		} else {
			out.Paid = true
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// SalariesByMonth is a read-through for the admin listing.
func (s *PayrollService) SalariesByMonth(ctx context.Context, month string) ([]model.SalaryRecord, error) {
	return s.store.SalariesByMonth(ctx, month)
}
