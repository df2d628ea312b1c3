package geom

import "testing"

func TestGate_ZeroStepsPassEveryChange(t *testing.T) {
	var g Gate
	tr := Transform{Scale: 1}
	if !g.Allow(tr) {
		t.Fatal("first transform must pass")
	}
	if g.Allow(tr) {
		t.Error("identical transform passed twice")
	}
	if !g.Allow(tr.Pan(0.1, 0)) {
		t.Error("pan with zero step did not pass")
	}
}

func TestGate_Throttle(t *testing.T) {
	g := Gate{ScaleStep: 0.3, TranslateStep: 10}
	base := Transform{Scale: 2}
	g.Allow(base)

	tests := []struct {
		name string
		tr   Transform
		want bool
	}{
		{"small zoom", Transform{Scale: 2.4}, false},
		{"small pan", Transform{Scale: 2, TranslateX: 10}, false},
		{"big pan", Transform{Scale: 2, TranslateY: -10.5}, true},
		{"big zoom after pan", Transform{Scale: 2.7, TranslateY: -10.5}, true},
		{"zoom out", Transform{Scale: 2.2, TranslateY: -10.5}, false},
		{"zoom out further", Transform{Scale: 1.8, TranslateY: -10.5}, true},
	}
	for _, tt := range tests {
		if got := g.Allow(tt.tr); got != tt.want {
			t.Errorf("%s: Allow(%+v) = %v, want %v", tt.name, tt.tr, got, tt.want)
		}
	}
}

func TestGate_Reset(t *testing.T) {
	var g Gate
	tr := Transform{Scale: 3}
	g.Allow(tr)
	g.Reset()
	if !g.Allow(tr) {
		t.Error("Allow after Reset should pass")
	}
}
