package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"worldmap/internal/geom"
)

// innerGroups returns the contents of every innermost parenthesised group.
func innerGroups(s string) []string {
	var out []string
	start := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			start = i + 1
		case ')':
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
		}
	}
	return out
}

// WKTToPath converts POINT, MULTIPOINT, LINESTRING, MULTILINESTRING, POLYGON
// and MULTIPOLYGON text into path commands. Polygon rings are closed with Z.
func WKTToPath(wkt string) (string, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return "", errors.New("wkt: empty")
	}
	i := strings.IndexAny(s, "( ")
	if i < 0 {
		return "", errors.New("wkt: missing coordinates")
	}
	kind := strings.ToUpper(s[:i])
	var closed bool
	switch kind {
	case "POLYGON", "MULTIPOLYGON":
		closed = true
	case "POINT", "MULTIPOINT", "LINESTRING", "MULTILINESTRING":
	default:
		return "", fmt.Errorf("wkt: unsupported type %q", kind)
	}
	groups := innerGroups(s[i:])
	if kind == "MULTIPOINT" && len(groups) > 1 {
		// MULTIPOINT((1 2),(3 4)) is one group per point.
		groups = []string{strings.Join(groups, ",")}
	}
	var sb strings.Builder
	for _, g := range groups {
		n := 0
		for _, tup := range strings.Split(g, ",") {
			parts := strings.Fields(strings.TrimSpace(tup))
			if len(parts) < 2 {
				continue
			}
			x, err1 := strconv.ParseFloat(parts[0], 64)
			y, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 != nil || err2 != nil {
				continue
			}
			switch {
			case n == 0 && sb.Len() > 0:
				sb.WriteString(" M")
			case n == 0:
				sb.WriteByte('M')
			default:
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatFloat(x, 'f', -1, 64))
			sb.WriteByte(',')
			sb.WriteString(strconv.FormatFloat(y, 'f', -1, 64))
			n++
		}
		if n > 0 && closed {
			sb.WriteString(" Z")
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("wkt: no coordinates parsed")
	}
	return sb.String(), nil
}

// ParseWKT reads one "id<TAB>WKT" feature per line. Blank lines and lines
// starting with # are ignored; unparsable lines are logged and skipped.
func ParseWKT(r io.Reader) (Dataset, error) {
	ds := Dataset{Kind: KindWKT}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		id, body, ok := strings.Cut(text, "\t")
		if !ok {
			geom.Logger().Warn("wkt_line_skipped", "line", line, "reason", "missing tab separator")
			continue
		}
		d, err := WKTToPath(body)
		if err != nil {
			geom.Logger().Warn("wkt_line_skipped", "line", line, "id", id, "err", err)
			continue
		}
		ds.Records = append(ds.Records, geom.PathRecord{ID: strings.TrimSpace(id), Commands: d})
	}
	if err := sc.Err(); err != nil {
		return Dataset{}, fmt.Errorf("wkt: %w", err)
	}
	if len(ds.Records) == 0 {
		return Dataset{}, errors.New("wkt: no features found")
	}
	return ds, nil
}

func LoadWKT(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	return ParseWKT(f)
}
