package geom

import "testing"

func TestExtractBoundingBox(t *testing.T) {
	tests := []struct {
		name     string
		commands string
		want     BBox
		ok       bool
	}{
		{"simple", "M10,20 L30,5 L15,40", BBox{10, 5, 30, 40}, true},
		{"empty", "", BBox{}, false},
		{"garbage", "ZZZ no numbers", BBox{}, false},
		{"single number", "M5", BBox{}, false},
		{"single pair", "M7,7", BBox{7, 7, 7, 7}, true},
		{"negative and packed", "M-10,-20 l5-5", BBox{-10, -20, 5, -5}, true},
		{"exponents", "M1e2,2E1 L-1.5e1,0", BBox{-15, 0, 100, 20}, true},
		{"leading dot", "M.5.5 1,1", BBox{0.5, 0.5, 1, 1}, true},
		{"stray commas", "M10,,20 ,30 40,", BBox{10, 20, 30, 40}, true},
		{"overflow pair skipped", "M1e400,5 L1,2 L3,4", BBox{1, 2, 3, 4}, true},
		{"odd trailing number", "M1,2 L3,4 5", BBox{1, 2, 3, 4}, true},
		{"curve control points included", "M0,0 C50,-20 80,120 100,100", BBox{0, -20, 100, 120}, true},
		{"whitespace separated", "M 1 2 L 3 4", BBox{1, 2, 3, 4}, true},
		{"closed multi subpath", "M0,0 10,0 10,10 Z M-5,-5 -1,-1 Z", BBox{-5, -5, 10, 10}, true},
		// relative offsets are paired as raw coordinates, not resolved
		{"relative taken literally", "m50,50 l10,0 0,5 z", BBox{0, 0, 50, 50}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBoundingBox(tt.commands)
			if ok != tt.ok {
				t.Fatalf("ExtractBoundingBox(%q) ok = %v, want %v", tt.commands, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ExtractBoundingBox(%q) = %+v, want %+v", tt.commands, got, tt.want)
			}
		})
	}
}

func TestExtractBoundingBox_Invariant(t *testing.T) {
	inputs := []string{
		"M305.83,197.63 306.1,198.2 304.9,199.01 Z",
		"m1,1 c-2,-2 3,3 4,4",
		"M0,0",
	}
	for _, in := range inputs {
		b, ok := ExtractBoundingBox(in)
		if !ok {
			t.Fatalf("ExtractBoundingBox(%q) not ok", in)
		}
		if b.Width() < 0 || b.Height() < 0 {
			t.Errorf("ExtractBoundingBox(%q) = %+v has negative size", in, b)
		}
	}
}

func TestNumberAt(t *testing.T) {
	tests := []struct {
		s    string
		i    int
		want int
	}{
		{"123", 0, 3},
		{"-1.5e3x", 0, 6},
		{"1e", 0, 1},
		{"-.", 0, 0},
		{".5.5", 0, 2},
		{".5.5", 2, 4},
		{"+7", 0, 2},
		{"abc", 0, 0},
	}
	for _, tt := range tests {
		if got := numberAt(tt.s, tt.i); got != tt.want {
			t.Errorf("numberAt(%q, %d) = %d, want %d", tt.s, tt.i, got, tt.want)
		}
	}
}

func BenchmarkExtractBoundingBox(b *testing.B) {
	path := "M305.83,197.63 306.1,198.2 304.9,199.01 303.5,200.7 301.2,201.1 300.4,199.8 Z"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ExtractBoundingBox(path)
	}
}
