package domain

import "strings"

// Order statuses with special meaning to the reconciliation engine. The status
// set is open; unknown values are carried through unchanged.
const (
	// StatusPending marks an order awaiting payment.
	StatusPending = "pending"
	// StatusCompleted marks a paid order (terminal).
	StatusCompleted = "completed"
	// StatusCancelled marks a cancelled order (terminal).
	StatusCancelled = "cancelled"
)

// NormalizeStatus lowercases and trims a status value for comparison.
func NormalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// TerminalStatuses returns the statuses after which monitoring stops.
func TerminalStatuses() []string {
	return []string{StatusCompleted, StatusCancelled}
}

// IsTerminalStatus reports whether a status ends order monitoring.
func IsTerminalStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
