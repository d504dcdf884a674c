package valueobject

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const occurrenceSeparator = "__"

// OccurrenceID identifies the projection of a recurring definition onto one month.
type OccurrenceID struct {
	DefinitionID uuid.UUID
	Month        YearMonth
}

// String renders the identifier as <definitionId>__YYYY-MM.
func (id OccurrenceID) String() string {
	return id.DefinitionID.String() + occurrenceSeparator + id.Month.String()
}

// ParseOccurrenceID parses the rendered form produced by String.
func ParseOccurrenceID(s string) (OccurrenceID, error) {
	def, month, ok := strings.Cut(s, occurrenceSeparator)
	if !ok {
		return OccurrenceID{}, fmt.Errorf("occurrence id %q: missing separator", s)
	}
	defID, err := uuid.Parse(def)
	if err != nil {
		return OccurrenceID{}, fmt.Errorf("occurrence id %q: %w", s, err)
	}
	ym, err := ParseYearMonth(month)
	if err != nil {
		return OccurrenceID{}, fmt.Errorf("occurrence id %q: %w", s, err)
	}
	return OccurrenceID{DefinitionID: defID, Month: ym}, nil
}
