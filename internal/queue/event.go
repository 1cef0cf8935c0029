// Package queue defines the message payloads exchanged over the
// broker and the background consumer that turns them into member
// notifications.
package queue

// Queue names.  Each event type gets its own durable queue.
const (
	BookingConfirmedQueue     = "booking.confirmed"
	BookingCancelledQueue     = "booking.cancelled"
	RegistrationExpiringQueue = "registration.expiring"
)

// BookingConfirmedEvent is published after a booking commits.  It
// carries enough for downstream consumers to notify the member
// without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	MemberID    uint64 `json:"member_id"`
	ClassID     uint64 `json:"class_id"`
	ClassName   string `json:"class_name"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	ConfirmedAt string `json:"confirmed_at"`
}

// BookingCancelledEvent is published when a member releases a seat.
type BookingCancelledEvent struct {
	BookingID   uint64 `json:"booking_id"`
	MemberID    uint64 `json:"member_id"`
	ClassID     uint64 `json:"class_id"`
	ClassName   string `json:"class_name"`
	Date        string `json:"date"`
	CancelledAt string `json:"cancelled_at"`
}

// RegistrationExpiringEvent warns that a membership is about to lapse.
type RegistrationExpiringEvent struct {
	RegistrationID uint64 `json:"registration_id"`
	MemberID       uint64 `json:"member_id"`
	EndDate        string `json:"end_date"`
	DaysLeft       int    `json:"days_left"`
}
