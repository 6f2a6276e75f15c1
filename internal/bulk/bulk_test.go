package bulk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memberdir/memberdir-backend/internal/lookup"
)

func testCatalog() *lookup.Catalog {
	return lookup.New(map[string][]string{
		"Karnataka": {"Bengaluru", "Mysuru"},
		"Delhi":     {"New Delhi"},
	})
}

func testIndex(t *testing.T) map[string]int {
	index, err := ResolveHeader(Columns)
	require.NoError(t, err)
	return index
}

func validAddCells(email, username string) []string {
	return []string{
		"", "Asha Rao", email, username, "9876543210",
		"4111111111111111", "Karnataka", "Bengaluru", "Female", "Reading, Music",
		"Angular, Node.js", "12 MG Road", "1991-04-23", "Secret@123",
	}
}

func TestResolveHeaderTolerantMatching(t *testing.T) {
	header := []string{
		" identifier ", "NAME", "E-Mail", "user_name", "MOBILE",
		"creditcard", "state", "city", "gender", "hobbies",
		"TECH  INTERESTS", "address", "d.o.b", "password",
	}
	index, err := ResolveHeader(header)
	require.NoError(t, err)
	assert.Equal(t, 5, index[ColCreditCard])
	assert.Equal(t, 10, index[ColTechInterests])
}

func TestResolveHeaderMissingColumns(t *testing.T) {
	header := []string{"Identifier", "Name", "Email"}
	_, err := ResolveHeader(header)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "Credit Card")
	assert.Contains(t, err.Error(), "Password")
}

func TestModeByIdentifierPresence(t *testing.T) {
	index := testIndex(t)

	add := NewRow(2, index, validAddCells("asha@example.com", "asha.rao"))
	assert.Equal(t, ModeAdd, add.Mode)

	cells := validAddCells("asha@example.com", "asha.rao")
	cells[0] = uuid.NewString()
	edit := NewRow(3, index, cells)
	assert.Equal(t, ModeEdit, edit.Mode)
}

func TestRowNormalization(t *testing.T) {
	index := testIndex(t)
	cells := []string{
		"", "  Asha Rao ", " Asha@Example.COM ", "asha.rao", "987-654-3210",
		"4111 1111 1111 1111", "Karnataka", "Bengaluru", "Female", " Reading ,, Music ",
		"Angular", "12 MG Road", "1991-04-23", "Secret@123",
	}
	r := NewRow(2, index, cells)

	assert.Equal(t, "Asha Rao", r.Name)
	assert.Equal(t, "asha@example.com", r.Email)
	assert.Equal(t, "9876543210", r.Mobile)
	assert.Equal(t, "1111", r.CardLast4)
	assert.Equal(t, []string{"Reading", "Music"}, r.Hobbies)
	assert.Equal(t, "1991-04-23", r.DOB)
	assert.Equal(t, cells, r.Cells)
}

func TestValidateAcceptsCompleteAddRow(t *testing.T) {
	r := NewRow(2, testIndex(t), validAddCells("asha@example.com", "asha.rao"))
	Validate(r, testCatalog())
	assert.Empty(t, r.Reasons)
}

func TestValidateAddRequiresEverything(t *testing.T) {
	r := NewRow(2, testIndex(t), make([]string, len(Columns)))
	Validate(r, testCatalog())

	assert.Len(t, r.Reasons, 12)
	assert.Contains(t, r.Reasons, "Name is required")
	assert.Contains(t, r.Reasons, "At least one hobby is required")
	assert.Contains(t, r.Reasons, "Password is required")
}

func TestValidateReportsAllViolations(t *testing.T) {
	cells := validAddCells("not-an-email", "ab")
	cells[4] = "12345"
	cells[13] = "short"
	r := NewRow(2, testIndex(t), cells)
	Validate(r, testCatalog())

	assert.Contains(t, r.Reasons, "Invalid email format")
	assert.Contains(t, r.Reasons, "Username must be 4-20 characters using letters, digits, dot, underscore or hyphen")
	assert.Contains(t, r.Reasons, "Mobile must be exactly 10 digits")
	assert.Contains(t, r.Reasons, "Password must be at least 8 characters")
	assert.GreaterOrEqual(t, len(r.Reasons), 4)
}

func TestValidateClosedVocabularies(t *testing.T) {
	cells := validAddCells("asha@example.com", "asha.rao")
	cells[6] = "Nowhereland"
	cells[8] = "female"
	cells[9] = "Reading, Knitting"
	cells[10] = "Angular, COBOL"
	r := NewRow(2, testIndex(t), cells)
	Validate(r, testCatalog())

	assert.Contains(t, r.Reasons, "Invalid state")
	assert.Contains(t, r.Reasons, "Invalid gender")
	assert.Contains(t, r.Reasons, "Invalid hobby: Knitting")
	assert.Contains(t, r.Reasons, "Invalid tech interest: COBOL")
}

func TestValidateCityMustBelongToState(t *testing.T) {
	cells := validAddCells("asha@example.com", "asha.rao")
	cells[7] = "New Delhi"
	r := NewRow(2, testIndex(t), cells)
	Validate(r, testCatalog())
	assert.Contains(t, r.Reasons, "City does not belong to the selected state")
}

func TestValidateCardAcceptsMaskedLast4(t *testing.T) {
	index := testIndex(t)

	cells := validAddCells("asha@example.com", "asha.rao")
	cells[0] = uuid.NewString()
	cells[5] = "1111"
	r := NewRow(2, index, cells)
	Validate(r, testCatalog())
	assert.Empty(t, r.Reasons)

	cells[5] = "12345678"
	r = NewRow(2, index, cells)
	Validate(r, testCatalog())
	assert.Contains(t, r.Reasons, "Credit Card must be 16 digits, or 4 digits for an already masked value")
}

func TestValidateEditOptionalButValid(t *testing.T) {
	index := testIndex(t)
	cells := make([]string, len(Columns))
	cells[0] = uuid.NewString()
	r := NewRow(2, index, cells)
	Validate(r, testCatalog())
	assert.Empty(t, r.Reasons)

	cells[12] = "23-04-1991"
	r = NewRow(2, index, cells)
	Validate(r, testCatalog())
	assert.Equal(t, []string{"Invalid DOB, expected YYYY-MM-DD"}, r.Reasons)
}

func TestValidateEditPasswordStillChecked(t *testing.T) {
	index := testIndex(t)
	cells := make([]string, len(Columns))
	cells[0] = uuid.NewString()
	cells[13] = "weakpass"
	r := NewRow(2, index, cells)
	Validate(r, testCatalog())
	assert.Len(t, r.Reasons, 1)
	assert.Contains(t, r.Reasons[0], "Password must contain")
}

func TestMarkFileDuplicatesFirstOccurrenceWins(t *testing.T) {
	index := testIndex(t)
	first := NewRow(2, index, validAddCells("asha@example.com", "asha.rao"))
	second := NewRow(3, index, validAddCells("Asha@Example.com", "other.name"))
	third := NewRow(4, index, validAddCells("third@example.com", "asha.rao"))

	MarkFileDuplicates([]*Row{first, second, third})

	assert.Empty(t, first.Reasons)
	assert.Equal(t, []string{"Duplicate email within file"}, second.Reasons)
	assert.Equal(t, []string{"Duplicate username within file"}, third.Reasons)
}

func TestMarkFileDuplicatesModeScoped(t *testing.T) {
	index := testIndex(t)
	add := NewRow(2, index, validAddCells("asha@example.com", "asha.rao"))
	editCells := validAddCells("asha@example.com", "asha.rao")
	editCells[0] = uuid.NewString()
	edit := NewRow(3, index, editCells)

	MarkFileDuplicates([]*Row{add, edit})

	assert.Empty(t, add.Reasons)
	assert.Empty(t, edit.Reasons)
}

func TestMarkStoreConflicts(t *testing.T) {
	index := testIndex(t)
	existingID := uuid.New()
	otherID := uuid.New()
	snap := NewStoreSnapshot([]Existing{
		{ID: existingID, Name: "Asha Rao", Email: "asha@example.com", Username: "asha.rao"},
		{ID: otherID, Name: "Ravi Iyer", Email: "ravi@example.com", Username: "ravi.iyer"},
	})

	addTaken := NewRow(2, index, validAddCells("asha@example.com", "fresh.name"))
	addClean := NewRow(3, index, validAddCells("new@example.com", "new.name"))

	editOwn := NewRow(4, index, validAddCells("asha@example.com", "asha.rao"))
	editOwn.Identifier = existingID.String()
	editOwn.Mode = ModeEdit

	editForeign := NewRow(5, index, validAddCells("ravi@example.com", "ravi.iyer"))
	editForeign.Identifier = existingID.String()
	editForeign.Mode = ModeEdit

	editMissing := NewRow(6, index, validAddCells("ghost@example.com", "ghost.user"))
	editMissing.Identifier = uuid.NewString()
	editMissing.Mode = ModeEdit

	MarkStoreConflicts([]*Row{addTaken, addClean, editOwn, editForeign, editMissing}, snap)

	assert.Equal(t, []string{"Email already exists"}, addTaken.Reasons)
	assert.Empty(t, addClean.Reasons)
	assert.Empty(t, editOwn.Reasons)
	assert.Equal(t, []string{"Email belongs to another member", "Username belongs to another member"}, editForeign.Reasons)
	assert.Equal(t, []string{"Member not found"}, editMissing.Reasons)
}

func TestSplitPartitionsDisjointly(t *testing.T) {
	index := testIndex(t)
	good := NewRow(2, index, validAddCells("a@example.com", "good.user"))
	bad := NewRow(3, index, validAddCells("b@example.com", "bad.user"))
	bad.Reject("Invalid state")

	p := Split([]*Row{good, bad})
	require.Len(t, p.Accepted, 1)
	require.Len(t, p.Rejected, 1)
	assert.Equal(t, 2, p.Accepted[0].Number)
	assert.Equal(t, "Invalid state", p.Rejected[0].Reason())
}

func TestBlank(t *testing.T) {
	assert.True(t, Blank([]string{"", "  ", "\t"}))
	assert.False(t, Blank([]string{"", "x"}))
	assert.True(t, Blank(nil))
}

func TestReasonJoinsWithSemicolon(t *testing.T) {
	r := &Row{}
	r.Reject("Invalid state")
	r.Reject("Duplicate email within file")
	assert.Equal(t, "Invalid state; Duplicate email within file", r.Reason())
}
