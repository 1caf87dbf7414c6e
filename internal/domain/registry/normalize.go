package registry

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Italian)

// NormalizeVATNumber strips every non-digit character from a VAT number so
// that "IT 01234567890" and "01234567890" compare equal. Idempotent:
// re-normalizing an already-normalized value is a no-op.
func NormalizeVATNumber(vat string) string {
	var b strings.Builder
	b.Grow(len(vat))
	for _, r := range vat {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeFiscalCode uppercases a fiscal code and removes interior spacing.
// Idempotent for the same reason as NormalizeVATNumber.
func NormalizeFiscalCode(code string) string {
	code = strings.TrimSpace(code)
	code = strings.ReplaceAll(code, " ", "")
	return upper.String(code)
}
