package geom

import "strconv"

type Point struct {
	X, Y float64
}

// Subpath is one M...[Z] run of a path with curves flattened to points.
type Subpath struct {
	Points []Point
	Closed bool
}

// curveSegments is how many line segments replace one Bezier curve.
const curveSegments = 8

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

// ParsePath walks path commands (M L H V C S Q T A Z, absolute and relative)
// and returns the outline as polylines. Curves are flattened; arcs are
// replaced by a line to their end point. Malformed numbers are skipped and
// incomplete argument groups ignored.
func ParsePath(d string) []Subpath {
	p := pathWalker{}
	var (
		cmd  byte
		args []float64
	)
	for i := 0; i < len(d); {
		c := d[i]
		if isCommand(c) {
			p.apply(cmd, args)
			args = args[:0]
			cmd = c
			i++
			if c == 'Z' || c == 'z' {
				p.close()
				cmd = 0
			}
			continue
		}
		if e := numberAt(d, i); e > i {
			if v, err := strconv.ParseFloat(d[i:e], 64); err == nil && finite(v) {
				args = append(args, v)
			}
			i = e
			continue
		}
		i++
	}
	p.apply(cmd, args)
	p.flush()
	return p.out
}

type pathWalker struct {
	out      []Subpath
	cur      Subpath
	x, y     float64 // current point
	sx, sy   float64 // subpath start
	cx, cy   float64 // last control point, for S and T
	lastCurv byte
}

func (p *pathWalker) flush() {
	if len(p.cur.Points) > 0 {
		p.out = append(p.out, p.cur)
	}
	p.cur = Subpath{}
}

func (p *pathWalker) moveTo(x, y float64) {
	p.flush()
	p.x, p.y, p.sx, p.sy = x, y, x, y
	p.cur.Points = append(p.cur.Points, Point{x, y})
}

func (p *pathWalker) lineTo(x, y float64) {
	if len(p.cur.Points) == 0 {
		p.cur.Points = append(p.cur.Points, Point{p.x, p.y})
	}
	p.x, p.y = x, y
	p.cur.Points = append(p.cur.Points, Point{x, y})
}

func (p *pathWalker) close() {
	if len(p.cur.Points) > 0 {
		p.cur.Closed = true
	}
	p.flush()
	p.x, p.y = p.sx, p.sy
	p.lastCurv = 0
}

func (p *pathWalker) cubic(x1, y1, x2, y2, x, y float64) {
	x0, y0 := p.x, p.y
	for i := 1; i <= curveSegments; i++ {
		t := float64(i) / curveSegments
		u := 1 - t
		a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
		p.lineTo(a*x0+b*x1+c*x2+d*x, a*y0+b*y1+c*y2+d*y)
	}
	p.x, p.y = x, y
	p.cx, p.cy = x2, y2
}

func (p *pathWalker) quad(x1, y1, x, y float64) {
	x0, y0 := p.x, p.y
	for i := 1; i <= curveSegments; i++ {
		t := float64(i) / curveSegments
		u := 1 - t
		a, b, c := u*u, 2*u*t, t*t
		p.lineTo(a*x0+b*x1+c*x, a*y0+b*y1+c*y)
	}
	p.x, p.y = x, y
	p.cx, p.cy = x1, y1
}

// reflect returns the current point mirrored control, or the current point
// when the previous command was not of the given curve family.
func (p *pathWalker) reflect(family byte) (float64, float64) {
	if p.lastCurv != family {
		return p.x, p.y
	}
	return 2*p.x - p.cx, 2*p.y - p.cy
}

func (p *pathWalker) apply(cmd byte, a []float64) {
	if cmd == 0 {
		return
	}
	rel := cmd >= 'a'
	ox, oy := 0.0, 0.0
	origin := func() {
		ox, oy = 0, 0
		if rel {
			ox, oy = p.x, p.y
		}
	}
	switch cmd {
	case 'M', 'm':
		for i := 0; i+1 < len(a); i += 2 {
			origin()
			if i == 0 {
				p.moveTo(ox+a[i], oy+a[i+1])
			} else {
				p.lineTo(ox+a[i], oy+a[i+1])
			}
		}
		p.lastCurv = 0
	case 'L', 'l':
		for i := 0; i+1 < len(a); i += 2 {
			origin()
			p.lineTo(ox+a[i], oy+a[i+1])
		}
		p.lastCurv = 0
	case 'H', 'h':
		for _, v := range a {
			origin()
			p.lineTo(ox+v, p.y)
		}
		p.lastCurv = 0
	case 'V', 'v':
		for _, v := range a {
			origin()
			p.lineTo(p.x, oy+v)
		}
		p.lastCurv = 0
	case 'C', 'c':
		for i := 0; i+5 < len(a); i += 6 {
			origin()
			p.cubic(ox+a[i], oy+a[i+1], ox+a[i+2], oy+a[i+3], ox+a[i+4], oy+a[i+5])
			p.lastCurv = 'C'
		}
	case 'S', 's':
		for i := 0; i+3 < len(a); i += 4 {
			origin()
			x1, y1 := p.reflect('C')
			p.cubic(x1, y1, ox+a[i], oy+a[i+1], ox+a[i+2], oy+a[i+3])
			p.lastCurv = 'C'
		}
	case 'Q', 'q':
		for i := 0; i+3 < len(a); i += 4 {
			origin()
			p.quad(ox+a[i], oy+a[i+1], ox+a[i+2], oy+a[i+3])
			p.lastCurv = 'Q'
		}
	case 'T', 't':
		for i := 0; i+1 < len(a); i += 2 {
			origin()
			x1, y1 := p.reflect('Q')
			p.quad(x1, y1, ox+a[i], oy+a[i+1])
			p.lastCurv = 'Q'
		}
	case 'A', 'a':
		// rx ry rotation large-arc sweep x y
		for i := 0; i+6 < len(a); i += 7 {
			origin()
			p.lineTo(ox+a[i+5], oy+a[i+6])
		}
		p.lastCurv = 0
	}
}

// Outline is a record parsed for drawing. Box bounds the drawn points, so
// relative commands land where they are drawn.
type Outline struct {
	ID       string
	Box      BBox
	Subpaths []Subpath
}

// Outlines parses records for drawing, skipping those without coordinates.
func Outlines(records []PathRecord) []Outline {
	out := make([]Outline, 0, len(records))
	for _, r := range records {
		subs := ParsePath(r.Commands)
		b, ok := pointsBox(subs)
		if !ok {
			if b, ok = ExtractBoundingBox(r.Commands); !ok {
				continue
			}
		}
		out = append(out, Outline{ID: r.ID, Box: b, Subpaths: subs})
	}
	return out
}

func pointsBox(subs []Subpath) (BBox, bool) {
	var b BBox
	ok := false
	for _, sp := range subs {
		for _, p := range sp.Points {
			if !ok {
				b, ok = BBox{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}, true
				continue
			}
			b = b.Extend(p.X, p.Y)
		}
	}
	return b, ok
}

// BoxRecords pairs each outline id with its box for HitTest.
func BoxRecords(outlines []Outline) []BoxRecord {
	out := make([]BoxRecord, len(outlines))
	for i := range outlines {
		out[i] = BoxRecord{ID: outlines[i].ID, Box: &outlines[i].Box}
	}
	return out
}
