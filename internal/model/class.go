package model

import (
	"errors"
	"strings"
	"time"
)

// Class statuses.  A CLOSED class no longer accepts bookings or
// enrollments but keeps its historical commitments.
const (
	ClassOpen   = "OPEN"
	ClassClosed = "CLOSED"
)

// WeekdaySet is a bitmask of time.Weekday values.  The schedule of a
// class is parsed once when the class is defined and stored as this
// mask, so request paths never re-parse weekday strings.
type WeekdaySet uint8

// NewWeekdaySet builds a set from individual weekdays.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// Contains reports whether d is part of the set.
func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// IsEmpty reports whether no weekday is scheduled.
func (s WeekdaySet) IsEmpty() bool { return s == 0 }

var weekdayNames = map[string]time.Weekday{
	"SUN": time.Sunday, "MON": time.Monday, "TUE": time.Tuesday,
	"WED": time.Wednesday, "THU": time.Thursday, "FRI": time.Friday,
	"SAT": time.Saturday,
}

var weekdayOrder = []struct {
	day  time.Weekday
	name string
}{
	{time.Monday, "MON"}, {time.Tuesday, "TUE"}, {time.Wednesday, "WED"},
	{time.Thursday, "THU"}, {time.Friday, "FRI"}, {time.Saturday, "SAT"},
	{time.Sunday, "SUN"},
}

// ErrInvalidWeekday is returned by ParseWeekdaySet for unknown day names.
var ErrInvalidWeekday = errors.New("invalid weekday name")

// ParseWeekdaySet parses a comma separated list such as "MON,WED,FRI"
// into a WeekdaySet.  It is intended for the class definition path
// only; per-request code works with the stored mask.
func ParseWeekdaySet(raw string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, part := range strings.Split(raw, ",") {
		p := strings.ToUpper(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		d, ok := weekdayNames[p]
		if !ok {
			return 0, ErrInvalidWeekday
		}
		s |= 1 << uint(d)
	}
	return s, nil
}

// String renders the set back to "MON,WED,FRI" form for display and
// storage round-trips.
func (s WeekdaySet) String() string {
	parts := make([]string, 0, 7)
	for _, w := range weekdayOrder {
		if s.Contains(w.day) {
			parts = append(parts, w.name)
		}
	}
	return strings.Join(parts, ",")
}

// Class is a recurring scheduled activity with fixed weekdays, a time
// window and a seat capacity.  Identity is immutable; schedule,
// capacity and price may change over time.
//
// Fields:
//
//	ID         – primary key identifier.
//	TrainerID  – trainer assigned to the class.
//	Name       – display name of the class.
//	Days       – weekday bitmask on which sessions run.
//	StartTime  – session start in "HH:MM" (24h).
//	EndTime    – session end in "HH:MM".
//	Capacity   – maximum seats per session.
//	PriceCents – optional flat enrollment price; nil means free.
//	Status     – OPEN or CLOSED.
type Class struct {
	ID         uint64     // classes.id
	TrainerID  uint64     // classes.trainer_id
	Name       string     // classes.name
	Days       WeekdaySet // classes.weekdays (bitmask)
	StartTime  string     // classes.starts_at_time
	EndTime    string     // classes.ends_at_time
	Capacity   uint32     // classes.capacity
	PriceCents *int64     // classes.price_cents (nullable)
	Status     string     // classes.status
	CreatedAt  time.Time  // classes.created_at
	UpdatedAt  time.Time  // classes.updated_at
}

// IsOpen reports whether the class accepts new commitments.
func (c *Class) IsOpen() bool { return c.Status == ClassOpen }

// RunsOn reports whether the class holds a session on the given date.
func (c *Class) RunsOn(date time.Time) bool {
	return c.Days.Contains(Date(date).Weekday())
}

// SessionDates expands the class schedule into the concrete session
// dates inside [from, to].  Both bounds are inclusive and truncated to
// day granularity.
func (c *Class) SessionDates(from, to time.Time) []time.Time {
	from, to = Date(from), Date(to)
	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.Days.Contains(d.Weekday()) {
			dates = append(dates, d)
		}
	}
	return dates
}
