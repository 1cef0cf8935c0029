package model

import "time"

// Member is the service's projection of an account managed by the
// external identity provider.  Only the fields needed for booking
// ownership and notification payloads are kept here.
//
// Fields:
//
//	ID        – primary key identifier (matches the identity provider's id).
//	FullName  – display name used in notifications.
//	Email     – delivery address for the notification sender.
//	CreatedAt – timestamp of first sight.
type Member struct {
	ID        uint64    // members.id
	FullName  string    // members.full_name
	Email     string    // members.email
	CreatedAt time.Time // members.created_at
}

// Trainer is a member of staff who teaches classes and personal
// training sessions and is paid a monthly base salary plus commission.
//
// Fields:
//
//	ID              – primary key identifier.
//	FullName        – display name.
//	Email           – contact address.
//	BaseSalaryCents – fixed monthly salary in minor currency units.
//	IsActive        – inactive trainers are skipped by payroll generation.
type Trainer struct {
	ID              uint64    // trainers.id
	FullName        string    // trainers.full_name
	Email           string    // trainers.email
	BaseSalaryCents int64     // trainers.base_salary_cents
	IsActive        bool      // trainers.is_active
	CreatedAt       time.Time // trainers.created_at
}

// Package is a purchasable, time-bounded gym-wide membership product.
// Its price is per month; the registration duration determines the
// total fee.
type Package struct {
	ID                uint64    // packages.id
	Name              string    // packages.name
	MonthlyPriceCents int64     // packages.monthly_price_cents
	IsActive          bool      // packages.is_active
	CreatedAt         time.Time // packages.created_at
}

// PersonalTrainingStatus values for personal training sessions.
const (
	PTScheduled = "SCHEDULED"
	PTCompleted = "COMPLETED"
	PTCanceled  = "CANCELED"
)

// PersonalTraining is a one-on-one session between a trainer and a
// member.  Completed sessions feed the trainer's personal-training
// commission.
type PersonalTraining struct {
	ID          uint64    // personal_training_sessions.id
	TrainerID   uint64    // personal_training_sessions.trainer_id
	MemberID    uint64    // personal_training_sessions.member_id
	SessionDate time.Time // personal_training_sessions.session_date
	PriceCents  int64     // personal_training_sessions.price_cents
	Status      string    // personal_training_sessions.status
}
