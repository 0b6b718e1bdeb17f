package compliance

import (
	"fmt"
	"strconv"
)

// ValidSIREN reports whether s is a structurally valid SIREN
// (9 digits, French business registry)
func ValidSIREN(s string) bool {
	return len(s) == 9 && allDigits(s)
}

// ValidSIRET reports whether s is a structurally valid SIRET
// (14 digits: SIREN + establishment number)
func ValidSIRET(s string) bool {
	return len(s) == 14 && allDigits(s)
}

// VATNumberFromSIREN derives the French intra-community VAT number from a
// SIREN: FR + key + SIREN, with key = (12 + 3*(siren mod 97)) mod 97.
func VATNumberFromSIREN(siren string) (string, error) {
	if !ValidSIREN(siren) {
		return "", fmt.Errorf("invalid SIREN %q: must be 9 digits", siren)
	}
	n, err := strconv.ParseInt(siren, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid SIREN %q: %w", siren, err)
	}
	key := (12 + 3*(n%97)) % 97
	return fmt.Sprintf("FR%02d%s", key, siren), nil
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
