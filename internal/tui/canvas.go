package tui

import (
	"math"
	"sort"
	"strings"

	"worldmap/internal/geom"
)

type cellKind uint8

const (
	cellPlain cellKind = iota
	cellSelected
	cellLabel
	cellHover
)

// micro projects a feature point onto the micro-pixel grid.
func (m Model) micro(p geom.Point) [2]int {
	x, y := m.tr.Apply(p.X, p.Y)
	return [2]int{int(math.Floor(x)), int(math.Floor(y))}
}

// projectOutline maps each subpath to micro-pixel rings, closing closed ones.
func (m Model) projectOutline(o geom.Outline) [][][2]int {
	rings := make([][][2]int, 0, len(o.Subpaths))
	for _, sp := range o.Subpaths {
		r := make([][2]int, 0, len(sp.Points)+1)
		for _, p := range sp.Points {
			r = append(r, m.micro(p))
		}
		if sp.Closed && len(r) > 2 {
			r = append(r, r[0])
		}
		rings = append(rings, r)
	}
	return rings
}

func strokeRings(b *brailleBuf, rings [][][2]int) {
	for _, r := range rings {
		if len(r) == 1 {
			b.setPixel(r[0][0], r[0][1])
		}
		for i := 0; i+1 < len(r); i++ {
			b.drawLineMicro(r[i][0], r[i][1], r[i+1][0], r[i+1][1])
		}
	}
}

// fillRings paints the interior of all rings with the even-odd rule, so
// holes stay empty.
func fillRings(b *brailleBuf, rings [][][2]int) {
	hMic, wMic := b.h*4, b.w*2
	var xs []int
	for yMic := 0; yMic < hMic; yMic++ {
		xs = xs[:0]
		for _, r := range rings {
			for i := 0; i+1 < len(r); i++ {
				a, c := r[i], r[i+1]
				if a[1] == c[1] {
					continue
				}
				if (yMic >= a[1] && yMic < c[1]) || (yMic >= c[1] && yMic < a[1]) {
					t := float64(yMic-a[1]) / float64(c[1]-a[1])
					xs = append(xs, int(float64(a[0])+t*float64(c[0]-a[0])))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(0, xs[i]); x <= min(wMic-1, xs[i+1]); x++ {
				b.setPixel(x, yMic)
			}
		}
	}
}

// renderMap draws outlines, centroids, labels and the hover marker into a
// w x h cell canvas.
func (m Model) renderMap(w, h int) string {
	grid := make([][]rune, h)
	kinds := make([][]cellKind, h)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", w))
		kinds[y] = make([]cellKind, w)
	}
	if !m.loaded {
		return composeCells(grid, kinds)
	}

	br := newBrailleBuf(w, h)
	sel := newBrailleBuf(w, h)
	vp := geom.Viewport{Width: float64(w * 2), Height: float64(h * 4)}
	if m.showOutlines {
		bounds := geom.ViewBounds(m.tr, vp, 0)
		for _, o := range m.outlines {
			if !bounds.Intersects(o.Box) {
				continue
			}
			rings := m.projectOutline(o)
			strokeRings(br, rings)
			if o.ID == m.selected {
				fillRings(sel, rings)
				strokeRings(sel, rings)
			}
		}
	}
	if m.showCentroids {
		for _, v := range m.visible {
			p := m.micro(geom.Point{X: v.X, Y: v.Y})
			br.setPixel(p[0], p[1])
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mask := br.m[y][x] | sel.m[y][x]
			if mask != 0 {
				grid[y][x] = rune(0x2800 + int(mask))
			}
			if sel.m[y][x] != 0 {
				kinds[y][x] = cellSelected
			}
		}
	}

	if m.showLabels {
		m.placeLabels(grid, kinds)
	}
	if m.hovering && m.hoverCellY >= 0 && m.hoverCellY < h && m.hoverCellX >= 0 && m.hoverCellX < w {
		grid[m.hoverCellY][m.hoverCellX] = '◯'
		kinds[m.hoverCellY][m.hoverCellX] = cellHover
	}
	return composeCells(grid, kinds)
}

// placeLabels writes names centered on visible centroids, largest features
// first, skipping any label that would touch one already placed.
func (m Model) placeLabels(grid [][]rune, kinds [][]cellKind) {
	h := len(grid)
	if h == 0 {
		return
	}
	w := len(grid[0])
	order := make([]geom.Visible, len(m.visible))
	copy(order, m.visible)
	sort.SliceStable(order, func(i, j int) bool { return order[i].Area > order[j].Area })

	taken := make([][]bool, h)
	for y := range taken {
		taken[y] = make([]bool, w)
	}
	for _, v := range order {
		label := []rune(m.ds.Name(v.ID))
		if len(label) > w {
			label = label[:w]
		}
		sx, sy := m.tr.Apply(v.X, v.Y)
		cy := int(math.Floor(sy / 4))
		x0 := int(math.Floor(sx/2)) - len(label)/2
		if cy < 0 || cy >= h || x0 < 0 || x0+len(label) > w {
			continue
		}
		free := true
		for x := max(0, x0-1); x < min(w, x0+len(label)+1) && free; x++ {
			free = !taken[cy][x]
		}
		if !free {
			continue
		}
		for i, r := range label {
			grid[cy][x0+i] = r
			kinds[cy][x0+i] = cellLabel
			taken[cy][x0+i] = true
		}
	}
}

// composeCells joins the grid into lines, styling runs of equal kind.
func composeCells(grid [][]rune, kinds [][]cellKind) string {
	lines := make([]string, len(grid))
	for y, row := range grid {
		var sb strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && kinds[y][x] == kinds[y][start] {
				continue
			}
			run := string(row[start:x])
			switch kinds[y][start] {
			case cellSelected:
				run = selectedStyle.Render(run)
			case cellLabel:
				run = labelStyle.Render(run)
			case cellHover:
				run = hoverStyle.Render(run)
			}
			sb.WriteString(run)
			start = x
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}
