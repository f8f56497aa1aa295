package report

import (
	"strings"

	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Currency is the currency every report is denominated in
const Currency = valueobject.NGN

// CategoryLabel turns an enum-style key such as OFFICE_SUPPLIES into "Office Supplies"
func CategoryLabel(key string) string {
	if key == "" {
		return "Uncategorised"
	}
	words := strings.ToLower(strings.ReplaceAll(key, "_", " "))
	return cases.Title(language.English).String(words)
}
