package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "John Doe", Sanitize("  John Doe  "))
	assert.Equal(t, "", Sanitize("   \t "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "9876543210", DigitsOnly(" 987-654 3210 "))
	assert.Equal(t, "", DigitsOnly("n/a"))
}

func TestCardLast4(t *testing.T) {
	assert.Equal(t, "1111", CardLast4("4111 1111 1111 1111"))
	assert.Equal(t, "1234", CardLast4("1234"))
	assert.Equal(t, "12", CardLast4("12"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Reading", "Music"}, SplitList(" Reading , Music ,, "))
	assert.Empty(t, SplitList("  "))
	// duplicates survive, order kept
	assert.Equal(t, []string{"Sports", "Sports"}, SplitList("Sports,Sports"))
}

func TestJoinListRoundTrip(t *testing.T) {
	items := []string{"Angular", "Node.js"}
	assert.Equal(t, items, SplitList(JoinList(items)))
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "1990-05-17", NormalizeDate("1990-05-17"))
	assert.Equal(t, "", NormalizeDate("17/05/1990"))
	assert.Equal(t, "", NormalizeDate("1990-13-01"))
	assert.Equal(t, "", NormalizeDate("not a date"))
	assert.Equal(t, "", NormalizeDate(""))
	// Excel serial for 2000-01-01
	assert.Equal(t, "2000-01-01", NormalizeDate("36526"))
}
