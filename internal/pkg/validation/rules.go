package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Validation rule patterns and bounds
var (
	// Email validation pattern - configurable
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Student code pattern - e.g. ESISA-2024-001
	StudentIDPattern = `^[A-Z]+-\d{4}-\d{3,}$`

	// Password min length
	PasswordMinLength = 8

	// PasswordSymbols is the fixed set of accepted special characters
	PasswordSymbols = `!@#$%^&*()_+-=[]{};':"|,.<>/?`

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 50

	// Phone max length
	PhoneMaxLength = 20

	// Study year and semester bounds
	YearMin     = 1
	YearMax     = 5
	SemesterMin = 1
	SemesterMax = 2

	// GPA domain
	GPAMin = 0.0
	GPAMax = 4.0
)

// DateOnlyFormat is the accepted format for date-of-birth and enrollment dates
const DateOnlyFormat = "2006-01-02"

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	StudentID *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	StudentID: regexp.MustCompile(StudentIDPattern),
}

// IsValidEmail checks email shape against the compiled pattern
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// IsValidStudentID checks a student code against the compiled pattern
func IsValidStudentID(studentID string) bool {
	return CompiledPatterns.StudentID.MatchString(studentID)
}

// CheckName validates a person name field, returning a reason on failure.
// Length is counted in runes so accented names are not penalized for their
// UTF-8 encoding.
func CheckName(value string) (string, bool) {
	length := utf8.RuneCountInString(strings.TrimSpace(value))
	if length < NameMinLength {
		return fmt.Sprintf("must be at least %d characters", NameMinLength), false
	}
	if length > NameMaxLength {
		return fmt.Sprintf("must be at most %d characters", NameMaxLength), false
	}
	return "", true
}

// CheckPassword validates password complexity: minimum length plus at least
// one uppercase letter, one lowercase letter, one digit and one symbol from
// the fixed set. Returns a reason on failure.
func CheckPassword(password string) (string, bool) {
	if len(password) < PasswordMinLength {
		return fmt.Sprintf("must be at least %d characters", PasswordMinLength), false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, char):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return "must contain at least one uppercase letter", false
	case !hasLower:
		return "must contain at least one lowercase letter", false
	case !hasDigit:
		return "must contain at least one digit", false
	case !hasSymbol:
		return "must contain at least one special character", false
	}

	return "", true
}

// CheckGPA validates the GPA domain. A nil GPA is valid.
func CheckGPA(gpa *float64) (string, bool) {
	if gpa == nil {
		return "", true
	}
	if *gpa < GPAMin || *gpa > GPAMax {
		return fmt.Sprintf("must be between %.1f and %.1f", GPAMin, GPAMax), false
	}
	return "", true
}

// CheckYear validates the study year range
func CheckYear(year int) (string, bool) {
	if year < YearMin || year > YearMax {
		return fmt.Sprintf("must be between %d and %d", YearMin, YearMax), false
	}
	return "", true
}

// CheckSemester validates the semester range
func CheckSemester(semester int) (string, bool) {
	if semester < SemesterMin || semester > SemesterMax {
		return fmt.Sprintf("must be between %d and %d", SemesterMin, SemesterMax), false
	}
	return "", true
}

// ParseDateOnly parses a date-only value like "2004-05-17"
func ParseDateOnly(value string) (time.Time, error) {
	t, err := time.Parse(DateOnlyFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
