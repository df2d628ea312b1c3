package dataset

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"worldmap/internal/geom"
)

var sampleTable = []geom.FeatureMetric{
	{ID: "RU", X: 742.5, Y: 71.66, Area: 32012.4, Width: 388.62, Height: 82.37},
	{ID: "VA", X: 512.03, Y: 141.2, Area: 0.01, Width: 0.1, Height: 0.1},
}

func TestTableJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTableJSON(&buf, sampleTable); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  {\n    \"id\": \"RU\",") {
		t.Errorf("unexpected layout:\n%s", buf.String())
	}
	got, err := ReadTableJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sampleTable) {
		t.Errorf("read back %+v", got)
	}
}

func TestWriteTable_Rounds(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTableCSV(&buf, []geom.FeatureMetric{{ID: "X", X: 1.006, Y: 2.344, Area: 3.999}})
	if err != nil {
		t.Fatal(err)
	}
	want := "id,x,y,area,width,height\nX,1.01,2.34,4,0,0\n"
	if buf.String() != want {
		t.Errorf("csv = %q, want %q", buf.String(), want)
	}
}

func TestReadTableCSV(t *testing.T) {
	in := "ID, Area, X, Y\nAA, 100, 1, 2\nBB, oops, 3, 4\nCC, 5, 6, 7\n"
	got, err := ReadTableCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.FeatureMetric{
		{ID: "AA", X: 1, Y: 2, Area: 100},
		{ID: "CC", X: 6, Y: 7, Area: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if _, err := ReadTableCSV(strings.NewReader("id,x\nA,1\n")); err == nil {
		t.Error("missing columns should fail")
	}
	if _, err := ReadTableCSV(strings.NewReader("")); err == nil {
		t.Error("empty csv should fail")
	}
}

func TestTableFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"t.json", "t.csv"} {
		p := filepath.Join(dir, name)
		if err := WriteTable(p, sampleTable); err != nil {
			t.Fatalf("WriteTable(%s): %v", name, err)
		}
		got, err := ReadTable(p)
		if err != nil {
			t.Fatalf("ReadTable(%s): %v", name, err)
		}
		if !reflect.DeepEqual(got, sampleTable) {
			t.Errorf("%s: read back %+v", name, got)
		}
	}
}
