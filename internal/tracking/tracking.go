// Package tracking validates India Post tracking numbers.
package tracking

import (
	"errors"
	"regexp"
	"strings"
)

var (
	numberRe  = regexp.MustCompile(`^[A-Z]{2}\d{9}[A-Z]{2}$`)
	partialRe = regexp.MustCompile(`^[A-Z]{0,2}\d{0,9}[A-Z]{0,2}$`)
)

var ErrInvalidNumber = errors.New("tracking number must be exactly 2 letters + 9 numbers + 2 letters (e.g., AB123456789XY)")

const StatusInTransit = "In transit with India Post"

// Status is the answer to a tracking lookup.
type Status struct {
	Number string `json:"trackingNumber"`
	Status string `json:"status"`
}

// Normalize uppercases and trims a number typed by the user.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Validate reports ErrInvalidNumber unless s is a complete number after normalization.
func Validate(s string) error {
	if !numberRe.MatchString(Normalize(s)) {
		return ErrInvalidNumber
	}
	return nil
}

// AcceptsInput reports whether s can still grow into a valid number. Empty input is accepted.
func AcceptsInput(s string) bool {
	n := Normalize(s)
	return len(n) <= 13 && partialRe.MatchString(n)
}

// Track returns the delivery status. There is no carrier integration, every valid number is
// in transit.
func Track(s string) (Status, error) {
	if err := Validate(s); err != nil {
		return Status{}, err
	}
	return Status{Number: Normalize(s), Status: StatusInTransit}, nil
}
