package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StudentIDPrefix is the institution prefix of generated student codes
const StudentIDPrefix = "ESISA"

// NextStudentID generates the next student code in the ESISA-<year>-NNN
// sequence. lastID is the highest existing code for the current year, or
// empty when none exists yet. A malformed lastID restarts the sequence.
func NextStudentID(lastID string) string {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d", StudentIDPrefix, year)

	if lastID != "" {
		parts := strings.Split(lastID, "-")
		if len(parts) == 3 {
			if lastNumber, err := strconv.Atoi(parts[2]); err == nil {
				return fmt.Sprintf("%s-%03d", prefix, lastNumber+1)
			}
		}
	}

	return prefix + "-001"
}
