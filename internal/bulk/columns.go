// Package bulk implements the spreadsheet reconciliation core: header
// resolution, row normalization and validation, intra-file duplicate
// detection, and conflict checks against the current member store.
package bulk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumns aborts the whole batch; partial headers are never
// processed.
var ErrMissingColumns = errors.New("missing required columns")

// Canonical column set, fixed order. Error reports append a trailing
// Reason column after these.
const (
	ColIdentifier    = "Identifier"
	ColName          = "Name"
	ColEmail         = "Email"
	ColUsername      = "Username"
	ColMobile        = "Mobile"
	ColCreditCard    = "Credit Card"
	ColState         = "State"
	ColCity          = "City"
	ColGender        = "Gender"
	ColHobbies       = "Hobbies"
	ColTechInterests = "Tech Interests"
	ColAddress       = "Address"
	ColDOB           = "DOB"
	ColPassword      = "Password"

	ColReason = "Reason"
)

var Columns = []string{
	ColIdentifier, ColName, ColEmail, ColUsername, ColMobile,
	ColCreditCard, ColState, ColCity, ColGender, ColHobbies,
	ColTechInterests, ColAddress, ColDOB, ColPassword,
}

// headerKey casefolds and strips non-alphanumerics so "Credit Card",
// "credit_card" and " CREDITCARD " all resolve to the same column.
func headerKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveHeader maps every canonical column to its index in the header
// row. Any missing column aborts the whole batch.
func ResolveHeader(header []string) (map[string]int, error) {
	byKey := make(map[string]int, len(header))
	for i, cell := range header {
		key := headerKey(cell)
		if key == "" {
			continue
		}
		if _, seen := byKey[key]; !seen {
			byKey[key] = i
		}
	}

	index := make(map[string]int, len(Columns))
	var missing []string
	for _, col := range Columns {
		i, ok := byKey[headerKey(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return index, nil
}
