package geom

import (
	"errors"
	"math"
	"testing"
)

func TestTierTable_MinArea(t *testing.T) {
	tests := []struct {
		zoom float64
		want float64
	}{
		{0.5, 2000},
		{1, 2000},
		{1.19, 2000},
		{1.2, 700},
		{1.99, 700},
		{2, 150},
		{3.5, 100},
		{5.99, 100},
		{6, 1},
		{1000, 1},
	}
	for _, tt := range tests {
		if got := DefaultTiers.MinArea(tt.zoom); got != tt.want {
			t.Errorf("MinArea(%v) = %v, want %v", tt.zoom, got, tt.want)
		}
	}
}

func TestTierTable_PastLastCeiling(t *testing.T) {
	tt := TierTable{{MaxZoom: 2, MinArea: 50}, {MaxZoom: 4, MinArea: 5}}
	if got := tt.MinArea(10); got != 5 {
		t.Errorf("MinArea past last ceiling = %v, want 5", got)
	}
	if got := tt.Index(10); got != 1 {
		t.Errorf("Index past last ceiling = %v, want 1", got)
	}
	if got := tt.Index(1); got != 0 {
		t.Errorf("Index(1) = %v, want 0", got)
	}
}

func TestTierTable_Validate(t *testing.T) {
	tests := []struct {
		name string
		tt   TierTable
		ok   bool
	}{
		{"default", DefaultTiers, true},
		{"single", TierTable{{MaxZoom: math.Inf(1), MinArea: 0}}, true},
		{"flat thresholds", TierTable{{MaxZoom: 1, MinArea: 5}, {MaxZoom: 2, MinArea: 5}}, true},
		{"empty", nil, false},
		{"zero ceiling", TierTable{{MaxZoom: 0, MinArea: 5}}, false},
		{"unsorted ceilings", TierTable{{MaxZoom: 3, MinArea: 5}, {MaxZoom: 2, MinArea: 1}}, false},
		{"rising threshold", TierTable{{MaxZoom: 1, MinArea: 5}, {MaxZoom: 2, MinArea: 6}}, false},
		{"negative area", TierTable{{MaxZoom: 1, MinArea: -1}}, false},
		{"nan area", TierTable{{MaxZoom: 1, MinArea: math.NaN()}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tt.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestTierTable_Monotonic(t *testing.T) {
	prev := math.Inf(1)
	for zr := 0.1; zr < 20; zr += 0.01 {
		got := DefaultTiers.MinArea(zr)
		if got > prev {
			t.Fatalf("threshold rose from %v to %v at zoom %v", prev, got, zr)
		}
		prev = got
	}
}
