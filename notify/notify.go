// Package notify defines the outbound alert capability shared by every
// delivery channel.
package notify

import (
	"context"
	"fmt"
)

// Priority follows the Pushover scale: 0 is normal, positive values are more
// intrusive and negative values are quieter.
type Priority int

const (
	PriorityLowest    Priority = -2
	PriorityLow       Priority = -1
	PriorityNormal    Priority = 0
	PriorityHigh      Priority = 1
	PriorityEmergency Priority = 2
)

func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "lowest"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityEmergency:
		return "emergency"
	}

	return fmt.Sprintf("priority(%d)", int(p))
}

// Notifier delivers a titled message to a person. Delivery is best-effort.
type Notifier interface {
	Send(ctx context.Context, title, message string, priority Priority) error
}

// Error reports a delivery that failed or was not acknowledged by the service.
type Error struct {
	Service string
	Status  int
	Reason  string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: delivery failed: %s", e.Service, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s: not acknowledged (http %d): %s", e.Service, e.Status, e.Reason)
	default:
		return fmt.Sprintf("%s: not acknowledged (http %d)", e.Service, e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
