// Package monitor holds the liveness state machine shared by host check-ins
// and the periodic sweep.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/lagren/checkinguard/notify"
	"github.com/lagren/checkinguard/persistence"
	"github.com/sirupsen/logrus"
)

// Store is the subset of the host store the monitor needs.
type Store interface {
	ReadOne(ctx context.Context, hostKey string) (persistence.Host, error)
	ReadAll(ctx context.Context) ([]persistence.Host, error)
	Update(ctx context.Context, hostKey string, u persistence.HostUpdate) error
}

// Monitor applies the liveness policy to check-ins and sweeps.
type Monitor struct {
	store    Store
	notifier notify.Notifier
	policy   Policy
	location *time.Location
	now      func() time.Time
	log      logrus.FieldLogger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLocation sets the zone timestamps are rendered in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(m *Monitor) {
		m.location = loc
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// WithLogger replaces the standard logrus logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Monitor) {
		m.log = log
	}
}

// New returns a Monitor over store that alerts through notifier.
func New(store Store, notifier notify.Notifier, policy Policy, opts ...Option) *Monitor {
	m := &Monitor{
		store:    store,
		notifier: notifier,
		policy:   policy,
		location: time.UTC,
		now:      time.Now,
		log:      logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// CheckIn records that the host owning hostKey is alive. A host that was
// flagged offline is flipped back online and a recovery alert is sent, unless
// a concurrent sweep flipped it first.
func (m *Monitor) CheckIn(ctx context.Context, hostKey string) error {
	if hostKey == "" {
		return ErrMissingHostKey
	}

	host, err := m.store.ReadOne(ctx, hostKey)
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrUnknownHost
	}
	if err != nil {
		return &StoreError{Op: "read", Err: err}
	}

	now := m.now().Unix()

	u := persistence.HostUpdate{LastCheckin: &now}

	recovered := host.Disconnected
	if recovered {
		online, offline := false, true
		u.Disconnected = &online
		u.IfDisconnected = &offline
	}

	err = m.store.Update(ctx, hostKey, u)
	if recovered && errors.Is(err, persistence.ErrConflict) {
		// A sweep already flipped the host online and sent the alert.
		recovered = false
		err = m.store.Update(ctx, hostKey, persistence.HostUpdate{LastCheckin: &now})
	}
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrUnknownHost
		}

		return &StoreError{Op: "write", Err: err}
	}

	if recovered {
		offlineFor := now - host.LastCheckin

		m.log.WithField("hostname", host.Hostname).Infof("Checked in after being offline for %ds", offlineFor)
		m.send(ctx, recoveryAlert(host, offlineFor))
	}

	return nil
}

// Sweep evaluates every host against the policy, persisting and alerting on
// each transition. scheduled is the nominal trigger time, used for logging.
//
// A failed status write aborts the rest of the cycle. A host whose flag was
// changed by a concurrent check-in is skipped.
func (m *Monitor) Sweep(ctx context.Context, scheduled time.Time) error {
	hosts, err := m.store.ReadAll(ctx)
	if err != nil {
		m.log.Errorf("Could not read hosts: %s", err)

		return &StoreError{Op: "read", Err: err}
	}

	at := scheduled.In(m.location).Format(timestampLayout)

	for _, host := range hosts {
		now := m.now()
		elapsed := now.Unix() - host.LastCheckin

		log := m.log.WithField("hostname", host.Hostname)

		transition := m.policy.Evaluate(host.Disconnected, elapsed)

		if transition == Stay {
			if host.Disconnected {
				log.Infof("%s: Checked, known to be offline. Time since last check-in: %ds", at, elapsed)
			} else {
				log.Infof("%s: Checked. Time since last check-in: %ds", at, elapsed)
			}

			continue
		}

		disconnected := transition == GoOffline
		previous := host.Disconnected

		err := m.store.Update(ctx, host.HostKey, persistence.HostUpdate{
			Disconnected:   &disconnected,
			IfDisconnected: &previous,
		})
		if errors.Is(err, persistence.ErrConflict) {
			log.Infof("%s: Status changed while checking, skipping", at)

			continue
		}
		if err != nil {
			log.Errorf("Could not write status: %s", err)

			return &StoreError{Op: "write", Err: err}
		}

		switch transition {
		case GoOffline:
			log.Infof("%s: Checked, seems to be offline", at)
			m.send(ctx, offlineAlert(host, now, m.location))
		case GoOnline:
			log.Infof("%s: Checked, recovered from disconnection after %ds", at, elapsed)
			m.send(ctx, recoveryAlert(host, elapsed))
		}
	}

	return nil
}

// send delivers the alert at normal priority. Failures are logged and dropped.
func (m *Monitor) send(ctx context.Context, a alert) {
	if err := m.notifier.Send(ctx, a.title, a.message, notify.PriorityNormal); err != nil {
		m.log.Errorf("Could not send notification %q: %s", a.title, err)
	}
}
