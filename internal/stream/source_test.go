package stream

import (
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"
)

func TestFill(t *testing.T) {
	p := make([]byte, 4)
	Fill(p, 254)
	want := []byte{254, 255, 0, 1}
	for i := range p {
		if p[i] != want[i] {
			t.Fatalf("Fill = %v, want %v", p, want)
		}
	}
}

func TestPattern_Deterministic(t *testing.T) {
	a, _ := io.ReadAll(Pattern(700))
	b, _ := io.ReadAll(Pattern(700))
	if string(a) != string(b) || len(a) != 700 {
		t.Fatalf("pattern not deterministic or wrong length (%d)", len(a))
	}
}

func TestRecordReader_ProducesJSONArray(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 123_000_000, time.UTC)
	r := NewRecordReader(3, 5)
	r.Now = func() time.Time { return fixed }

	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	var recs []Record
	if err := json.Unmarshal(b, &recs); err != nil {
		t.Fatalf("invalid json %q: %v", b, err)
	}
	if len(recs) != 3 {
		t.Fatalf("records = %d", len(recs))
	}
	for i, rec := range recs {
		if rec.ID != i+1 || rec.Name != "Item "+string(rune('1'+i)) {
			t.Fatalf("record %d = %+v", i, rec)
		}
		if rec.Data != "xxxxx" || rec.Timestamp != "2024-05-01T10:00:00.123Z" {
			t.Fatalf("record %d = %+v", i, rec)
		}
	}
	if strings.Count(string(b), "},{") != 2 {
		t.Fatalf("records must be comma separated: %s", b)
	}
}

func TestRecordReader_Empty(t *testing.T) {
	b, err := io.ReadAll(NewRecordReader(0, 10))
	if err != nil || string(b) != "[]" {
		t.Fatalf("got %q, %v", b, err)
	}
}

func TestRecordReader_SmallReads(t *testing.T) {
	r := NewRecordReader(2, 3)
	var out []byte
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if !json.Valid(out) {
		t.Fatalf("invalid json: %s", out)
	}
}

func TestText(t *testing.T) {
	b, _ := io.ReadAll(Text("ab", 3))
	if string(b) != "ababab" {
		t.Fatalf("got %q", b)
	}
	b, _ = io.ReadAll(Text("ab", 0))
	if len(b) != 0 {
		t.Fatalf("got %q", b)
	}
}
