package eavs

import (
	"strconv"
	"strings"
)

// stringSentinels are the string-form "data not available" markers that
// appear in raw EAVS exports. Negative numeric codes (-77, -88, -99 and any
// other negative value) are caught by the numeric check below, so they do
// not need to be enumerated here beyond their literal string forms.
var stringSentinels = map[string]bool{
	"":                         true,
	"-77":                      true,
	"-88":                      true,
	"-99":                      true,
	"DNA (DATA NOT AVAILABLE)": true,
}

// NormalizeCount converts a raw survey field value into a clean count.
// The second return value reports whether a usable value was present.
//
// Sentinel tokens, negative values after numeric coercion, and anything
// that fails to parse all map to absent. NormalizeCount never fails; it is
// the single normalization point for every numeric field the aggregator
// touches.
func NormalizeCount(raw string) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if stringSentinels[trimmed] {
		return 0, false
	}

	// Values may arrive as floats ("1234.0"); coerce through float first.
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}

	n := int(f)
	// Any negative number is a special code, not a measurement.
	if n < 0 {
		return 0, false
	}

	return n, true
}
