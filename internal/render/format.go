package render

import (
	"strings"
	"time"
)

// FormatSIREN groups a SIREN into blocks of three digits ("123 456 789")
func FormatSIREN(siren string) string {
	var parts []string
	for i := 0; i < len(siren); i += 3 {
		end := i + 3
		if end > len(siren) {
			end = len(siren)
		}
		parts = append(parts, siren[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatSIRET groups a SIRET as "123 456 789 00012"
func FormatSIRET(siret string) string {
	if len(siret) != 14 {
		return siret
	}
	return siret[:3] + " " + siret[3:6] + " " + siret[6:9] + " " + siret[9:]
}

// FormatVATNumber spaces a French VAT number as "FR 32 123456789"
func FormatVATNumber(vat string) string {
	if len(vat) < 4 {
		return vat
	}
	return vat[:2] + " " + vat[2:4] + " " + vat[4:]
}

// FormatIBAN groups an IBAN into blocks of four characters
func FormatIBAN(iban string) string {
	iban = strings.Join(strings.Fields(iban), "")
	var parts []string
	for i := 0; i < len(iban); i += 4 {
		end := i + 4
		if end > len(iban) {
			end = len(iban)
		}
		parts = append(parts, iban[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatBIC pads an 8-character BIC to 11 with XXX and groups by four
func FormatBIC(bic string) string {
	bic = strings.Join(strings.Fields(bic), "")
	if len(bic) == 8 {
		bic += "XXX"
	}
	var parts []string
	for i := 0; i < len(bic); i += 4 {
		end := i + 4
		if end > len(bic) {
			end = len(bic)
		}
		parts = append(parts, bic[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatDateFR renders a date the French way, DD/MM/YYYY
func FormatDateFR(t time.Time) string {
	return t.Format("02/01/2006")
}
