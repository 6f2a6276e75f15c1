package bulk

import (
	"strings"

	"github.com/memberdir/memberdir-backend/internal/fields"
)

type Mode string

const (
	ModeAdd  Mode = "ADD"
	ModeEdit Mode = "EDIT"
)

// Row is one spreadsheet line after normalization. Number is the
// display row number (header is line 1, first data row is 2) and is
// what error reports surface, never an array index.
type Row struct {
	Number int
	Mode   Mode

	// Cells holds the raw values in canonical column order, for the
	// error report round-trip.
	Cells []string

	Identifier    string
	Name          string
	Email         string
	Username      string
	Mobile        string
	CardLast4     string
	State         string
	City          string
	Gender        string
	Hobbies       []string
	TechInterests []string
	Address       string
	DOB           string
	Password      string

	// Raw presence/shape kept for the validator: normalization turns
	// bad input into absent values, the raw text tells required-vs-
	// malformed apart.
	rawMobile string
	rawCard   string
	rawDOB    string

	Reasons []string
}

// NewRow normalizes one data row. index maps canonical column names to
// cell positions (from ResolveHeader); number is the sheet line.
func NewRow(number int, index map[string]int, cells []string) *Row {
	at := func(col string) string {
		i := index[col]
		if i >= len(cells) {
			return ""
		}
		return cells[i]
	}

	r := &Row{
		Number:        number,
		Identifier:    fields.Sanitize(at(ColIdentifier)),
		Name:          fields.Sanitize(at(ColName)),
		Email:         fields.NormalizeEmail(at(ColEmail)),
		Username:      fields.Sanitize(at(ColUsername)),
		State:         fields.Sanitize(at(ColState)),
		City:          fields.Sanitize(at(ColCity)),
		Gender:        fields.Sanitize(at(ColGender)),
		Hobbies:       fields.SplitList(at(ColHobbies)),
		TechInterests: fields.SplitList(at(ColTechInterests)),
		Address:       fields.Sanitize(at(ColAddress)),
		Password:      fields.Sanitize(at(ColPassword)),

		rawMobile: fields.Sanitize(at(ColMobile)),
		rawCard:   fields.Sanitize(at(ColCreditCard)),
		rawDOB:    fields.Sanitize(at(ColDOB)),
	}
	r.Mobile = fields.DigitsOnly(r.rawMobile)
	r.CardLast4 = fields.CardLast4(r.rawCard)
	r.DOB = fields.NormalizeDate(r.rawDOB)

	if r.Identifier != "" {
		r.Mode = ModeEdit
	} else {
		r.Mode = ModeAdd
	}

	r.Cells = make([]string, len(Columns))
	for i, col := range Columns {
		r.Cells[i] = at(col)
	}
	return r
}

// Blank reports whether every cell of a sheet row is empty or
// whitespace; such rows are dropped before processing.
func Blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r *Row) Reject(reason string) {
	r.Reasons = append(r.Reasons, reason)
}

func (r *Row) Rejected() bool {
	return len(r.Reasons) > 0
}

// Reason joins all collected reasons into the single string surfaced
// in the error report.
func (r *Row) Reason() string {
	return strings.Join(r.Reasons, "; ")
}
