// Package status holds the lifecycle status vocabulary shared by the
// driver and autonomous lines, in both Go and SQL form.
package status

import "strings"

const (
	Completed = "completed"
	Cancelled = "cancelled"
)

var replacer = strings.NewReplacer(" ", "_", "-", "_")

// cutset is trimmed from both ends in Go and in SQL alike.
const cutset = " \t\r\n"

// Normalize lower-cases a status and folds spaces and hyphens into
// underscores, so "In Progress", "in-progress" and "in_progress" compare
// equal. The American spelling "canceled" is folded into Cancelled.
func Normalize(s string) string {
	n := replacer.Replace(strings.ToLower(strings.Trim(s, cutset)))
	if n == "canceled" {
		return Cancelled
	}
	return n
}

// IsTerminal reports whether a status closes an engagement.
func IsTerminal(s string) bool {
	switch Normalize(s) {
	case Completed, Cancelled:
		return true
	}
	return false
}

// IsOpen is the complement of IsTerminal.
func IsOpen(s string) bool {
	return !IsTerminal(s)
}

// SQL returns an expression normalizing column the same way Normalize does.
func SQL(column string) string {
	return "lower(replace(replace(btrim(" + column + ", E' \\t\\r\\n'), ' ', '_'), '-', '_'))"
}

// OpenSQL returns a predicate matching rows whose column holds an open status.
func OpenSQL(column string) string {
	return SQL(column) + " NOT IN ('completed', 'cancelled', 'canceled')"
}

// CompletedSQL returns a predicate matching rows whose column is completed.
func CompletedSQL(column string) string {
	return SQL(column) + " = 'completed'"
}
