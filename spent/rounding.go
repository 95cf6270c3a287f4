package spent

import "fmt"

// Rounding is the whole-minute unit all durations are snapped to.
type Rounding int

// Supported rounding units.
const (
	Rounding1  Rounding = 1
	Rounding5  Rounding = 5
	Rounding10 Rounding = 10
	Rounding15 Rounding = 15
	Rounding30 Rounding = 30
)

// Roundings lists the supported units in ascending order.
var Roundings = []Rounding{Rounding1, Rounding5, Rounding10, Rounding15, Rounding30}

// ParseRounding validates minutes against the supported units.
func ParseRounding(minutes int) (Rounding, error) {
	for _, r := range Roundings {
		if int(r) == minutes {
			return r, nil
		}
	}
	return 0, fmt.Errorf("spent: unsupported rounding of %d minutes (want one of %v)", minutes, Roundings)
}

// Round snaps a non-negative number of minutes to the nearest multiple of r.
// Ties round up, so with r == 10 both 5 and 25 round to the next multiple
// (10 and 30).
func (r Rounding) Round(minutes int) int {
	unit := int(r)
	if unit <= 1 || minutes <= 0 {
		return minutes
	}
	// floor(minutes/unit + 1/2) * unit, in integer arithmetic.
	return (2*minutes + unit) / (2 * unit) * unit
}
