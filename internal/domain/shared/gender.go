package shared

// Gender is used both for residents and for gender-restricted rooms
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderMixed  Gender = "MIXED"
	GenderOther  Gender = "OTHER"
)

// IsValid reports whether g is a known value. Empty is allowed and means unspecified.
func (g Gender) IsValid() bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderMixed, GenderOther:
		return true
	}
	return false
}

// Admits reports whether a resident of gender resident may live in a room of gender g
func (g Gender) Admits(resident Gender) bool {
	if g == "" || g == GenderMixed || resident == "" {
		return true
	}
	return g == resident
}
