package monitor

import "fmt"

type PolicyKind string

const (
	// SingleThreshold marks hosts offline past one threshold. Recovery is only
	// detected when the host checks in.
	SingleThreshold PolicyKind = "single"
	// DualThreshold adds a lower reconnection threshold so the sweep can also
	// detect recovery without flapping.
	DualThreshold PolicyKind = "dual"
)

const (
	DefaultSingleDisconnectionThreshold int64 = 185
	DefaultDualDisconnectionThreshold   int64 = 75
	DefaultReconnectionThreshold        int64 = 60
)

// Policy holds the thresholds, in seconds, used by the sweep.
type Policy struct {
	Kind                   PolicyKind
	DisconnectionThreshold int64
	ReconnectionThreshold  int64
}

func DefaultPolicy(kind PolicyKind) Policy {
	if kind == SingleThreshold {
		return Policy{Kind: SingleThreshold, DisconnectionThreshold: DefaultSingleDisconnectionThreshold}
	}

	return Policy{
		Kind:                   DualThreshold,
		DisconnectionThreshold: DefaultDualDisconnectionThreshold,
		ReconnectionThreshold:  DefaultReconnectionThreshold,
	}
}

func (p Policy) Validate() error {
	switch p.Kind {
	case SingleThreshold:
		if p.DisconnectionThreshold <= 0 {
			return fmt.Errorf("disconnection threshold must be positive, got %d", p.DisconnectionThreshold)
		}
	case DualThreshold:
		if p.ReconnectionThreshold <= 0 {
			return fmt.Errorf("reconnection threshold must be positive, got %d", p.ReconnectionThreshold)
		}
		if p.ReconnectionThreshold >= p.DisconnectionThreshold {
			return fmt.Errorf("reconnection threshold (%d) must be below disconnection threshold (%d)", p.ReconnectionThreshold, p.DisconnectionThreshold)
		}
	default:
		return fmt.Errorf("unknown threshold policy %q", p.Kind)
	}

	return nil
}

type Transition int

const (
	Stay Transition = iota
	GoOffline
	GoOnline
)

func (t Transition) String() string {
	switch t {
	case GoOffline:
		return "offline"
	case GoOnline:
		return "online"
	}

	return "none"
}

// Evaluate decides what the sweep does with a host that has been silent for
// elapsed seconds and whose stored flag is disconnected.
func (p Policy) Evaluate(disconnected bool, elapsed int64) Transition {
	switch p.Kind {
	case SingleThreshold:
		if !disconnected && elapsed > p.DisconnectionThreshold {
			return GoOffline
		}
	case DualThreshold:
		if disconnected && elapsed <= p.ReconnectionThreshold {
			return GoOnline
		}
		if !disconnected && elapsed >= p.DisconnectionThreshold {
			return GoOffline
		}
	}

	return Stay
}
