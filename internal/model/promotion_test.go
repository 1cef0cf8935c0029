package model_test

import (
	"testing"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

func TestPromotion_ValidOn(t *testing.T) {
	promo := model.Promotion{
		Code:            "SUMMER20",
		DiscountPercent: 20,
		IsActive:        true,
		StartDate:       date("2025-06-01"),
		EndDate:         date("2025-08-31"),
	}

	tests := []struct {
		name   string
		mutate func(p *model.Promotion)
		today  string
		want   bool
	}{
		{name: "inside window", today: "2025-07-15", want: true},
		{name: "first day", today: "2025-06-01", want: true},
		{name: "last day", today: "2025-08-31", want: true},
		{name: "before window", today: "2025-05-31", want: false},
		{name: "after window", today: "2025-09-01", want: false},
		{
			name:   "inactive flag wins over window",
			mutate: func(p *model.Promotion) { p.IsActive = false },
			today:  "2025-07-15",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := promo
			if tt.mutate != nil {
				tt.mutate(&p)
			}
			if got := p.ValidOn(date(tt.today)); got != tt.want {
				t.Errorf("ValidOn(%s) = %v, want %v", tt.today, got, tt.want)
			}
		})
	}
}

func TestPromotion_Apply(t *testing.T) {
	tests := []struct {
		name    string
		percent uint8
		base    int64
		want    int64
	}{
		{name: "twenty percent off", percent: 20, base: 500_000, want: 400_000},
		{name: "zero percent", percent: 0, base: 500_000, want: 500_000},
		{name: "hundred percent", percent: 100, base: 500_000, want: 0},
		{name: "rounds half up", percent: 33, base: 101, want: 68}, // 67.67 -> 68
		{name: "small amount", percent: 50, base: 1, want: 1},      // 0.5 -> 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.Promotion{DiscountPercent: tt.percent}
			got := p.Apply(tt.base)
			if got != tt.want {
				t.Errorf("Apply(%d) = %d, want %d", tt.base, got, tt.want)
			}
			if got > tt.base {
				t.Errorf("Apply(%d) = %d exceeds base amount", tt.base, got)
			}
		})
	}
}
