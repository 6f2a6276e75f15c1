package bulk

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/memberdir/memberdir-backend/internal/lookup"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[a-zA-Z]{2,}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]{4,20}$`)
)

const passwordSymbols = "@$!%*?&"

// ValidEmail and ValidUsername are shared with the single-member CRUD
// and register paths so both surfaces enforce the same field rules.
func ValidEmail(v string) bool    { return emailRe.MatchString(v) }
func ValidUsername(v string) bool { return usernameRe.MatchString(v) }

// PasswordReason returns "" for an acceptable password, otherwise the
// human-readable rule it breaks.
func PasswordReason(pw string) string {
	return passwordReason(pw)
}

// Validate runs every applicable check and appends a reason for each
// violation. Checks never short-circuit, so one row can report several
// reasons at once. ADD rows require every field; EDIT rows validate
// whatever is present.
func Validate(r *Row, cat *lookup.Catalog) {
	required := r.Mode == ModeAdd

	if r.Name == "" && required {
		r.Reject("Name is required")
	}

	switch {
	case r.Email == "":
		if required {
			r.Reject("Email is required")
		}
	case !emailRe.MatchString(r.Email):
		r.Reject("Invalid email format")
	}

	switch {
	case r.Username == "":
		if required {
			r.Reject("Username is required")
		}
	case !usernameRe.MatchString(r.Username):
		r.Reject("Username must be 4-20 characters using letters, digits, dot, underscore or hyphen")
	}

	switch {
	case r.rawMobile == "":
		if required {
			r.Reject("Mobile is required")
		}
	case len(r.Mobile) != 10:
		r.Reject("Mobile must be exactly 10 digits")
	}

	switch {
	case r.rawCard == "":
		if required {
			r.Reject("Credit Card is required")
		}
	default:
		if n := cardDigits(r.rawCard); n != 16 && n != 4 {
			r.Reject("Credit Card must be 16 digits, or 4 digits for an already masked value")
		}
	}

	switch {
	case r.State == "":
		if required {
			r.Reject("State is required")
		}
	case !cat.ValidState(r.State):
		r.Reject("Invalid state")
	}

	switch {
	case r.City == "":
		if required {
			r.Reject("City is required")
		}
	case r.State != "" && cat.ValidState(r.State) && !cat.ValidCity(r.State, r.City):
		r.Reject("City does not belong to the selected state")
	}

	switch {
	case r.Gender == "":
		if required {
			r.Reject("Gender is required")
		}
	case !cat.ValidGender(r.Gender):
		r.Reject("Invalid gender")
	}

	if len(r.Hobbies) == 0 {
		if required {
			r.Reject("At least one hobby is required")
		}
	} else {
		for _, h := range r.Hobbies {
			if !cat.ValidHobby(h) {
				r.Reject("Invalid hobby: " + h)
			}
		}
	}

	if len(r.TechInterests) == 0 {
		if required {
			r.Reject("At least one tech interest is required")
		}
	} else {
		for _, ti := range r.TechInterests {
			if !cat.ValidTech(ti) {
				r.Reject("Invalid tech interest: " + ti)
			}
		}
	}

	switch {
	case r.rawDOB == "":
		if required {
			r.Reject("DOB is required")
		}
	case r.DOB == "":
		r.Reject("Invalid DOB, expected YYYY-MM-DD")
	}

	switch {
	case r.Password == "":
		if required {
			r.Reject("Password is required")
		}
	default:
		if reason := passwordReason(r.Password); reason != "" {
			r.Reject(reason)
		}
	}
}

func cardDigits(raw string) int {
	n := 0
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			n++
		}
	}
	return n
}

func passwordReason(pw string) string {
	if len(pw) < 8 {
		return "Password must be at least 8 characters"
	}
	var lower, upper, digit, symbol bool
	for _, c := range pw {
		switch {
		case unicode.IsLower(c):
			lower = true
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsDigit(c):
			digit = true
		case strings.ContainsRune(passwordSymbols, c):
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		return "Password must contain a lowercase letter, an uppercase letter, a digit and one of " + passwordSymbols
	}
	return ""
}
