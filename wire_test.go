package circuitcheck

import (
	"errors"
	"slices"
	"testing"
)

func TestWireTable_AmpacityOrdering(t *testing.T) {
	sizes := WireSizes()
	if len(sizes) != 17 {
		t.Fatalf("Expected 17 sizes, got %d", len(sizes))
	}

	var prev WireSpec
	for i, size := range sizes {
		w, err := LookupWire(size)
		if err != nil {
			t.Fatalf("LookupWire(%q): %v", size, err)
		}
		if !(w.Ampacity60C <= w.Ampacity75C && w.Ampacity75C <= w.Ampacity90C) {
			t.Errorf("%s: ampacity not ordered by insulation rating: %v/%v/%v",
				size, w.Ampacity60C, w.Ampacity75C, w.Ampacity90C)
		}
		if i > 0 {
			if w.Ampacity75C <= prev.Ampacity75C {
				t.Errorf("%s: 75°C ampacity %v not above %s (%v)", size, w.Ampacity75C, prev.Size, prev.Ampacity75C)
			}
			if w.ResistancePerKFt >= prev.ResistancePerKFt {
				t.Errorf("%s: resistance %v not below %s (%v)", size, w.ResistancePerKFt, prev.Size, prev.ResistancePerKFt)
			}
		}
		prev = w
	}
}

func TestWireTable_Ampacity(t *testing.T) {
	tests := []struct {
		size   string
		rating int
		want   float64
	}{
		{"12", 60, 20},
		{"12", 75, 25},
		{"12", 90, 30},
		{"12", 40, 20},
		{"12", 105, 30},
		{"4/0", 75, 230},
		{"500", 90, 430},
		{"13", 75, 0},
	}

	for _, tt := range tests {
		if got := Ampacity(tt.size, tt.rating); got != tt.want {
			t.Errorf("Ampacity(%q, %d) = %v, want %v", tt.size, tt.rating, got, tt.want)
		}
	}
}

func TestWireTable_UnknownSize(t *testing.T) {
	if _, err := LookupWire("0000"); !errors.Is(err, ErrUnknownWireSize) {
		t.Errorf("LookupWire: expected ErrUnknownWireSize, got %v", err)
	}
	if _, err := LargerWireSizes("0000"); !errors.Is(err, ErrUnknownWireSize) {
		t.Errorf("LargerWireSizes: expected ErrUnknownWireSize, got %v", err)
	}
}

func TestWireTable_LargerSizes(t *testing.T) {
	got, err := LargerWireSizes("4/0")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"250", "300", "350", "400", "500"}
	if !slices.Equal(got, want) {
		t.Errorf("LargerWireSizes(4/0) = %v, want %v", got, want)
	}

	got, _ = LargerWireSizes("500")
	if len(got) != 0 {
		t.Errorf("Expected nothing above 500 kcmil, got %v", got)
	}
}

func TestWireTable_SizesAreCopies(t *testing.T) {
	sizes := WireSizes()
	sizes[0] = "mutated"
	if WireSizes()[0] != "14" {
		t.Error("WireSizes exposes the internal ladder")
	}
}

func TestWireSpec_ResistancePerFoot(t *testing.T) {
	w, _ := LookupWire("12")
	if got := w.ResistancePerFoot(); !approx(got, 0.00193) {
		t.Errorf("ResistancePerFoot = %v, want 0.00193", got)
	}
}
