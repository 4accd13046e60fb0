package id

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	nonSlug    = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Slug derives a URL-safe account id from a display name.
// "Petty Cash (Branch 2)" -> "petty_cash_branch_2"
func Slug(name string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(name), "")
	return whitespace.ReplaceAllString(s, "_")
}

// Unique returns base, or base_1, base_2, ... for the first candidate that
// taken reports as free.
func Unique(base string, taken func(string) bool) string {
	candidate := base
	for n := 1; taken(candidate); n++ {
		candidate = base + "_" + strconv.Itoa(n)
	}
	return candidate
}

// NewEntryID returns a random journal entry id.
func NewEntryID() string {
	return uuid.NewString()
}

// FormatTransactionID returns an id like "TXN-1718000000000-7".
func FormatTransactionID(at time.Time, seq int) string {
	return fmt.Sprintf("TXN-%d-%d", at.UnixMilli(), seq)
}

// ParseTransactionID returns the sequence number of a transaction id.
func ParseTransactionID(s string) (int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || parts[0] != "TXN" {
		return 0, fmt.Errorf("invalid transaction ID format: %q", s)
	}
	if _, err := strconv.ParseInt(parts[1], 10, 64); err != nil {
		return 0, fmt.Errorf("invalid timestamp in transaction ID %q: %w", s, err)
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", s, err)
	}
	return seq, nil
}
