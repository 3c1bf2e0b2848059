// Package limiter selects a window of table rows for the --limit, --offset and
// --tail flags.
package limiter

import "fmt"

// Config holds the row-limiting parameters.
type Config struct {
	Limit  int // Show only this many rows (0 = unlimited)
	Offset int // Skip the first N rows (0 = no skip)
	Tail   int // Show only the last N rows (0 = disabled); mutually exclusive with Limit
}

// Validate checks for conflicting flag combinations and returns an error if invalid.
// Rules:
// - Limit and Tail are mutually exclusive
// - If Tail is set, Offset is ignored
// - All numeric values must be non-negative
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Window returns the half-open range [start, end) of a sequence of n rows that
// the configuration selects.
func (c Config) Window(n int) (start, end int) {
	if n < 0 {
		n = 0
	}
	if c.Tail > 0 {
		return max(n-c.Tail, 0), n
	}
	start = min(max(c.Offset, 0), n)
	end = n
	if c.Limit > 0 {
		end = min(start+c.Limit, n)
	}
	return start, end
}

// Apply returns the selected rows. The result shares its backing array with rows.
func Apply[T any](c Config, rows []T) []T {
	if !c.IsActive() {
		return rows
	}
	start, end := c.Window(len(rows))
	return rows[start:end]
}

// Describe summarizes what was kept, e.g. "rows 11-20 of 57". It returns an empty
// string when nothing was cut.
func (c Config) Describe(n int) string {
	start, end := c.Window(n)
	if start == 0 && end == n {
		return ""
	}
	if start == end {
		return fmt.Sprintf("no rows of %d", n)
	}
	return fmt.Sprintf("rows %d-%d of %d", start+1, end, n)
}
