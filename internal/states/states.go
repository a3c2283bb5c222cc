// Package states holds static reference data for US states: code/name
// lookups and the hand-verified 2026 election dates used as a fallback
// when scraping a Secretary of State site fails.
package states

// Names maps two-letter state codes to full state names.
// DC is included because special elections are tracked there.
var Names = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming", "DC": "District of Columbia",
}

// KnownDates holds a primary and general election date pair in
// YYYY-MM-DD form.
type KnownDates struct {
	Primary string
	General string
}

// Known2026 contains 2026 election dates verified against NCSL and
// official state sources. Used as the fallback when a state's calendar
// page cannot be fetched or parsed.
var Known2026 = map[string]KnownDates{
	"AL": {Primary: "2026-05-19", General: "2026-11-03"},
	"AK": {Primary: "2026-08-18", General: "2026-11-03"},
	"AZ": {Primary: "2026-08-04", General: "2026-11-03"},
	"AR": {Primary: "2026-03-03", General: "2026-11-03"},
	"CA": {Primary: "2026-06-02", General: "2026-11-03"},
	"CO": {Primary: "2026-06-30", General: "2026-11-03"},
	"CT": {Primary: "2026-08-11", General: "2026-11-03"},
	"DE": {Primary: "2026-09-15", General: "2026-11-03"},
	"FL": {Primary: "2026-08-18", General: "2026-11-03"},
	"GA": {Primary: "2026-05-19", General: "2026-11-03"},
	"HI": {Primary: "2026-08-08", General: "2026-11-03"},
	"ID": {Primary: "2026-05-19", General: "2026-11-03"},
	"IL": {Primary: "2026-03-17", General: "2026-11-03"},
	"IN": {Primary: "2026-05-05", General: "2026-11-03"},
	"IA": {Primary: "2026-06-02", General: "2026-11-03"},
	"KS": {Primary: "2026-08-04", General: "2026-11-03"},
	"KY": {Primary: "2026-05-19", General: "2026-11-03"},
	"LA": {Primary: "2026-05-16", General: "2026-11-03"},
	"ME": {Primary: "2026-06-09", General: "2026-11-03"},
	"MD": {Primary: "2026-06-23", General: "2026-11-03"},
	"MA": {Primary: "2026-09-01", General: "2026-11-03"},
	"MI": {Primary: "2026-08-04", General: "2026-11-03"},
	"MN": {Primary: "2026-08-11", General: "2026-11-03"},
	"MS": {Primary: "2026-03-10", General: "2026-11-03"},
	"MO": {Primary: "2026-08-04", General: "2026-11-03"},
	"MT": {Primary: "2026-06-02", General: "2026-11-03"},
	"NE": {Primary: "2026-05-12", General: "2026-11-03"},
	"NV": {Primary: "2026-06-09", General: "2026-11-03"},
	"NH": {Primary: "2026-09-08", General: "2026-11-03"},
	"NJ": {Primary: "2026-06-02", General: "2026-11-03"},
	"NM": {Primary: "2026-06-02", General: "2026-11-03"},
	"NY": {Primary: "2026-06-23", General: "2026-11-03"},
	"NC": {Primary: "2026-03-03", General: "2026-11-03"},
	"ND": {Primary: "2026-06-09", General: "2026-11-03"},
	"OH": {Primary: "2026-05-05", General: "2026-11-03"},
	"OK": {Primary: "2026-06-16", General: "2026-11-03"},
	"OR": {Primary: "2026-05-19", General: "2026-11-03"},
	"PA": {Primary: "2026-05-19", General: "2026-11-03"},
	"RI": {Primary: "2026-09-08", General: "2026-11-03"},
	"SC": {Primary: "2026-06-09", General: "2026-11-03"},
	"SD": {Primary: "2026-06-02", General: "2026-11-03"},
	"TN": {Primary: "2026-08-06", General: "2026-11-03"},
	"TX": {Primary: "2026-03-03", General: "2026-11-03"},
	"UT": {Primary: "2026-06-23", General: "2026-11-03"},
	"VT": {Primary: "2026-08-11", General: "2026-11-03"},
	"VA": {Primary: "2026-06-16", General: "2026-11-03"},
	"WA": {Primary: "2026-08-04", General: "2026-11-03"},
	"WV": {Primary: "2026-05-12", General: "2026-11-03"},
	"WI": {Primary: "2026-08-11", General: "2026-11-03"},
	"WY": {Primary: "2026-08-18", General: "2026-11-03"},
}

// IsValidCode reports whether code is a known two-letter state code.
func IsValidCode(code string) bool {
	_, ok := Names[code]
	return ok
}

// Name returns the full name for a state code, or "" if unknown.
func Name(code string) string {
	return Names[code]
}
