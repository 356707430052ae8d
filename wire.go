package circuitcheck

import (
	"fmt"
	"slices"
)

// WireSpec holds the physical and electrical properties of one standard
// conductor size. Values are for copper at the three insulation classes.
type WireSpec struct {
	Size             string  `json:"size" yaml:"size"`
	DiameterMils     float64 `json:"diameter_mils" yaml:"diameter_mils"`
	AreaCMil         float64 `json:"area_cmil" yaml:"area_cmil"`
	ResistancePerKFt float64 `json:"resistance_ohm_per_kft" yaml:"resistance_ohm_per_kft"` // Ω per 1000 ft
	Ampacity60C      float64 `json:"ampacity_60c" yaml:"ampacity_60c"`
	Ampacity75C      float64 `json:"ampacity_75c" yaml:"ampacity_75c"`
	Ampacity90C      float64 `json:"ampacity_90c" yaml:"ampacity_90c"`
}

// ResistancePerFoot returns the conductor resistance in Ω/ft.
func (w WireSpec) ResistancePerFoot() float64 {
	return w.ResistancePerKFt / 1000.0
}

// wireLadder is the upgrade order, smallest conductor first.
// Labels such as "1/0" and kcmil sizes make a numeric sort meaningless,
// so the order is maintained by hand and must match wireTable's keys.
var wireLadder = []string{
	"14", "12", "10", "8", "6", "4", "2", "1",
	"1/0", "2/0", "3/0", "4/0",
	"250", "300", "350", "400", "500",
}

var wireTable = map[string]WireSpec{
	"14":  {"14", 64.1, 4107, 3.07, 15, 20, 25},
	"12":  {"12", 80.8, 6530, 1.93, 20, 25, 30},
	"10":  {"10", 101.9, 10380, 1.21, 30, 35, 40},
	"8":   {"8", 128.5, 16510, 0.764, 40, 50, 55},
	"6":   {"6", 162.0, 26240, 0.491, 55, 65, 75},
	"4":   {"4", 204.3, 41740, 0.308, 70, 85, 95},
	"2":   {"2", 257.6, 66360, 0.194, 95, 115, 130},
	"1":   {"1", 289.3, 83690, 0.154, 110, 130, 150},
	"1/0": {"1/0", 325.0, 105600, 0.122, 125, 150, 170},
	"2/0": {"2/0", 365.0, 133100, 0.0967, 145, 175, 195},
	"3/0": {"3/0", 409.6, 167800, 0.0766, 165, 200, 225},
	"4/0": {"4/0", 460.0, 211600, 0.0608, 195, 230, 260},
	"250": {"250", 500.0, 250000, 0.0515, 215, 255, 290},
	"300": {"300", 547.0, 300000, 0.0429, 240, 285, 320},
	"350": {"350", 591.0, 350000, 0.0367, 260, 310, 350},
	"400": {"400", 632.0, 400000, 0.0321, 280, 335, 380},
	"500": {"500", 707.0, 500000, 0.0258, 320, 380, 430},
}

// LookupWire returns the spec for a conductor size.
// An unknown size wraps ErrUnknownWireSize.
func LookupWire(size string) (WireSpec, error) {
	w, ok := wireTable[size]
	if !ok {
		return WireSpec{}, fmt.Errorf("%w: %q", ErrUnknownWireSize, size)
	}
	return w, nil
}

// Ampacity returns the rated current for a size at an insulation temperature
// rating: ≤60 selects the 60°C column, ≤75 the 75°C column, anything higher
// the 90°C column.
//
// An unknown size returns 0 rather than an error. Analyzer entry points call
// LookupWire first, so only callers that already guard for unknown sizes
// reach this fallback.
func Ampacity(size string, insulationRatingC int) float64 {
	w, ok := wireTable[size]
	if !ok {
		return 0
	}
	switch {
	case insulationRatingC <= 60:
		return w.Ampacity60C
	case insulationRatingC <= 75:
		return w.Ampacity75C
	default:
		return w.Ampacity90C
	}
}

// WireSizes returns the standard sizes in upgrade order.
func WireSizes() []string {
	return slices.Clone(wireLadder)
}

// LargerWireSizes returns the ladder entries strictly larger than size,
// smallest first. An unknown size wraps ErrUnknownWireSize.
func LargerWireSizes(size string) ([]string, error) {
	i := slices.Index(wireLadder, size)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWireSize, size)
	}
	return slices.Clone(wireLadder[i+1:]), nil
}
