package models

import "fmt"

const (
	StatusConfirmed      = "order confirmed"
	StatusProcessing     = "processing"
	StatusShipped        = "shipped"
	StatusOutForDelivery = "out for delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
	StatusReturned       = "returned"
)

// statusFlow is the linear fulfilment path. Cancelled and returned branch off it.
var statusFlow = []string{
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
}

func IsOrderStatus(s string) bool {
	return s == StatusCancelled || s == StatusReturned || flowIndex(s) >= 0
}

// IsTerminal reports whether no further transition is allowed out of s.
func IsTerminal(s string) bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusReturned
}

// NextStatus returns the next step along the fulfilment path, or "" when there is none.
func NextStatus(s string) string {
	i := flowIndex(s)
	if i < 0 || i == len(statusFlow)-1 {
		return ""
	}
	return statusFlow[i+1]
}

// AllowedTransitions lists every status reachable from s in one move.
func AllowedTransitions(s string) []string {
	if !IsOrderStatus(s) || IsTerminal(s) {
		return []string{}
	}
	return []string{NextStatus(s), StatusCancelled, StatusReturned}
}

// CheckTransition validates a move from one status to another. Orders advance one step
// at a time or jump to cancelled/returned; terminal statuses never change.
func CheckTransition(from, to string) error {
	if !IsOrderStatus(from) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if !IsOrderStatus(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	for _, allowed := range AllowedTransitions(from) {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %q to %q", ErrInvalidTransition, from, to)
}

func flowIndex(s string) int {
	for i, v := range statusFlow {
		if v == s {
			return i
		}
	}
	return -1
}
