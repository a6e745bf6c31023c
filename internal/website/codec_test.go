package website

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const sampleBatch = `[
  {"name": "Google", "url": "https://www.google.com", "icon": "https://example.com/g.svg", "description": "Search engine"},
  {"name": "Amazon", "url": "https://www.amazon.co.uk", "icon": "", "description": "Shopping site", "rank": 3}
]`

func TestDecode_ValidBatch(t *testing.T) {
	got, err := Decode([]byte(sampleBatch), nil)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	want := []Website{
		{Name: "Google", URL: "https://www.google.com", Icon: "https://example.com/g.svg", Description: "Search engine"},
		{Name: "Amazon", URL: "https://www.amazon.co.uk", Icon: "", Description: "Shopping site"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Website{}, "ID")); diff != "" {
		t.Fatalf("Decode mismatch (-want +got):\n%s", diff)
	}
	for i, w := range got {
		if w.ID == "" {
			t.Fatalf("record %d has empty ID", i)
		}
	}
	if got[0].ID == got[1].ID {
		t.Fatalf("records share ID %q", got[0].ID)
	}
}

func TestDecode_EmptyArray(t *testing.T) {
	got, err := Decode([]byte(`[]`), nil)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestDecode_RejectsWholeBatch(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing field", `[{"name":"A","url":"u","icon":"i","description":"d"},{"name":"B","url":"u","icon":"i"}]`},
		{"null field", `[{"name":null,"url":"u","icon":"i","description":"d"}]`},
		{"wrong type", `[{"name":"A","url":"u","icon":"i","description":42}]`},
		{"null element", `[null]`},
		{"object instead of array", `{"name":"A","url":"u","icon":"i","description":"d"}`},
		{"top-level null", `null`},
		{"not json", `<html>oops</html>`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data), nil)
			if err == nil {
				t.Fatalf("Decode returned %d records, want error", len(got))
			}
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("error = %v, want ErrMalformed", err)
			}
			if got != nil {
				t.Fatalf("records = %#v, want nil", got)
			}
		})
	}
}

func TestEncode_RoundTripKeepsFields(t *testing.T) {
	first, err := Decode([]byte(sampleBatch), nil)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	data, err := Encode(first)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	second, err := Decode(data, nil)
	if err != nil {
		t.Fatalf("Decode of encoded batch returned error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("len = %d, want %d", len(second), len(first))
	}
	for i := range first {
		if !first[i].SameContent(second[i]) {
			t.Fatalf("record %d = %#v, want content of %#v", i, second[i], first[i])
		}
		if first[i].ID == second[i].ID {
			t.Fatalf("record %d kept ID %q across decodes with RandomID", i, first[i].ID)
		}
	}
}

func TestDecode_ContentIDIsStable(t *testing.T) {
	first, err := Decode([]byte(sampleBatch), ContentID)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	second, err := Decode([]byte(sampleBatch), ContentID)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("record %d ID = %q, want %q", i, second[i].ID, first[i].ID)
		}
	}
	if first[0].ID == first[1].ID {
		t.Fatalf("distinct records share content ID %q", first[0].ID)
	}
}
