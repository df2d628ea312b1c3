package dataset

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"worldmap/internal/geom"
)

// ParseSVG returns every <path> carrying both an id and a d attribute, in
// document order and at any depth. data-name attributes are collected into
// the returned name map.
func ParseSVG(r io.Reader) (Dataset, error) {
	ds := Dataset{Kind: KindSVG, Names: map[string]string{}}
	dec := xml.NewDecoder(r)
	root := true
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("svg: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if root {
			if se.Name.Local != "svg" {
				return Dataset{}, fmt.Errorf("svg: root element is <%s>", se.Name.Local)
			}
			root = false
			continue
		}
		if se.Name.Local != "path" {
			continue
		}
		var id, d, name string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "id":
				id = a.Value
			case "d":
				d = a.Value
			case "data-name":
				name = a.Value
			}
		}
		if id == "" || d == "" {
			continue
		}
		ds.Records = append(ds.Records, geom.PathRecord{ID: id, Commands: d})
		if name != "" {
			ds.Names[id] = name
		}
	}
	if root {
		return Dataset{}, errors.New("svg: empty document")
	}
	if len(ds.Records) == 0 {
		return Dataset{}, errors.New("svg: no paths found")
	}
	return ds, nil
}

func LoadSVG(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	return ParseSVG(f)
}
