package geom

import "strconv"

// ExtractBoundingBox scans commands for numeric (x, y) pairs and returns their
// axis-aligned bounds. Numbers are paired in order regardless of the command
// they belong to, so curve control points widen the box. The result is coarse
// but good enough for culling.
//
// Pairs that do not parse to finite values are skipped. The second result is
// false when no usable pair was found.
func ExtractBoundingBox(commands string) (BBox, bool) {
	var (
		box     BBox
		found   bool
		pending bool
		x       float64
		xok     bool
	)
	for i := 0; ; {
		start, end := nextNumber(commands, i)
		if start < 0 {
			break
		}
		i = end
		v, err := strconv.ParseFloat(commands[start:end], 64)
		ok := err == nil && finite(v)
		if !pending {
			x, xok, pending = v, ok, true
			continue
		}
		pending = false
		if !xok || !ok {
			continue
		}
		if !found {
			box = BBox{MinX: x, MinY: v, MaxX: x, MaxY: v}
			found = true
			continue
		}
		box = box.Extend(x, v)
	}
	return box, found
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// numberAt returns the end of the number token starting at i, or i when no
// number starts there. Grammar: [+-]?(d+(.d*)?|.d+)([eE][+-]?d+)?
func numberAt(s string, i int) int {
	n := len(s)
	j := i
	if j < n && (s[j] == '+' || s[j] == '-') {
		j++
	}
	digits := 0
	for j < n && isDigit(s[j]) {
		j++
		digits++
	}
	if j < n && s[j] == '.' {
		k := j + 1
		frac := 0
		for k < n && isDigit(s[k]) {
			k++
			frac++
		}
		if digits > 0 || frac > 0 {
			j = k
			digits += frac
		}
	}
	if digits == 0 {
		return i
	}
	if j < n && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < n && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < n && isDigit(s[k]) {
			for k < n && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

// nextNumber finds the first number token at or after i. start is -1 when
// the rest of s holds no number.
func nextNumber(s string, i int) (start, end int) {
	for ; i < len(s); i++ {
		if e := numberAt(s, i); e > i {
			return i, e
		}
	}
	return -1, len(s)
}
