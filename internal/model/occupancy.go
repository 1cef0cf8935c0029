package model

// Occupancy levels used by presentation.  They are informational
// classifications; rejection decisions use AvailableSeats only.
const (
	LevelAvailable  = "AVAILABLE"
	LevelNearlyFull = "NEARLY_FULL"
	LevelFull       = "FULL"
)

// nearlyFullRatio is the fill ratio at which a class is flagged as
// nearly full.
const nearlyFullRatio = 0.80

// Occupancy is the pure capacity calculation for one class on one
// date.  Two independent commitment sources feed the same pool:
// per-date BOOKED bookings and ACTIVE class registrations whose date
// range covers the date.  The struct carries the raw counts; all
// derived figures are computed on demand so there is no counter to
// drift.
type Occupancy struct {
	Capacity        uint32 // maximum seats of the class
	BookedCount     uint32 // BOOKED bookings for (class, date)
	RegisteredCount uint32 // ACTIVE registrations covering the date
}

// TotalOccupied is the sum of both commitment sources.
func (o Occupancy) TotalOccupied() uint32 {
	return o.BookedCount + o.RegisteredCount
}

// AvailableSeats is the remaining capacity, floored at zero.  The
// total can exceed capacity transiently when capacity is reduced after
// commitments exist; callers never see a negative count.
func (o Occupancy) AvailableSeats() uint32 {
	occ := o.TotalOccupied()
	if occ >= o.Capacity {
		return 0
	}
	return o.Capacity - occ
}

// FillRatio is TotalOccupied divided by Capacity.  A zero-capacity
// class reports 1.0 so that it always classifies as FULL.
func (o Occupancy) FillRatio() float64 {
	if o.Capacity == 0 {
		return 1.0
	}
	return float64(o.TotalOccupied()) / float64(o.Capacity)
}

// IsFull reports whether no seat remains.  Capacity zero is always
// full regardless of occupancy.
func (o Occupancy) IsFull() bool {
	return o.Capacity == 0 || o.TotalOccupied() >= o.Capacity
}

// Level classifies occupancy for display: FULL, NEARLY_FULL (fill
// ratio >= 0.80) or AVAILABLE.
func (o Occupancy) Level() string {
	if o.IsFull() {
		return LevelFull
	}
	if o.FillRatio() >= nearlyFullRatio {
		return LevelNearlyFull
	}
	return LevelAvailable
}
