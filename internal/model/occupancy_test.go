package model_test

import (
	"testing"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

func TestOccupancy_AvailableSeats(t *testing.T) {
	tests := []struct {
		name string
		occ  model.Occupancy
		want uint32
	}{
		{
			name: "empty class",
			occ:  model.Occupancy{Capacity: 10},
			want: 10,
		},
		{
			name: "bookings only",
			occ:  model.Occupancy{Capacity: 10, BookedCount: 4},
			want: 6,
		},
		{
			name: "both sources sum into one pool",
			occ:  model.Occupancy{Capacity: 10, BookedCount: 1, RegisteredCount: 9},
			want: 0,
		},
		{
			name: "over capacity floors at zero",
			occ:  model.Occupancy{Capacity: 5, BookedCount: 4, RegisteredCount: 4},
			want: 0,
		},
		{
			name: "zero capacity",
			occ:  model.Occupancy{Capacity: 0},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.occ.AvailableSeats(); got != tt.want {
				t.Errorf("AvailableSeats() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOccupancy_Level(t *testing.T) {
	tests := []struct {
		name string
		occ  model.Occupancy
		want string
	}{
		{
			name: "available",
			occ:  model.Occupancy{Capacity: 10, BookedCount: 3},
			want: model.LevelAvailable,
		},
		{
			name: "nearly full at 80 percent",
			occ:  model.Occupancy{Capacity: 10, BookedCount: 5, RegisteredCount: 3},
			want: model.LevelNearlyFull,
		},
		{
			name: "full at capacity",
			occ:  model.Occupancy{Capacity: 10, BookedCount: 1, RegisteredCount: 9},
			want: model.LevelFull,
		},
		{
			name: "full beyond capacity",
			occ:  model.Occupancy{Capacity: 10, BookedCount: 6, RegisteredCount: 6},
			want: model.LevelFull,
		},
		{
			name: "zero capacity is always full",
			occ:  model.Occupancy{Capacity: 0, BookedCount: 0, RegisteredCount: 0},
			want: model.LevelFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.occ.Level(); got != tt.want {
				t.Errorf("Level() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Nine active registrations plus one booking against capacity ten
// leaves no seat: the two commitment sources share a single pool.
func TestOccupancy_DualSourcesFillPool(t *testing.T) {
	occ := model.Occupancy{Capacity: 10, BookedCount: 1, RegisteredCount: 9}
	if got := occ.AvailableSeats(); got != 0 {
		t.Errorf("AvailableSeats() = %d, want 0", got)
	}
	if !occ.IsFull() {
		t.Error("IsFull() = false, want true")
	}
}
