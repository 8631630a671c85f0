package monitor

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/lagren/checkinguard/notify"
	"github.com/lagren/checkinguard/persistence"
)

var errBroken = errors.New("database is locked")

type fakeStore struct {
	mu    sync.Mutex
	hosts map[string]persistence.Host

	readErr   error
	readsOne  int
	readsAll  int
	updates   int
	failAfter int // fail updates once this many succeeded; -1 never
	// onUpdate lets a test mutate state between the sweep's read and write.
	onUpdate func(key string)
}

func newFakeStore(hosts ...persistence.Host) *fakeStore {
	s := &fakeStore{hosts: map[string]persistence.Host{}, failAfter: -1}
	for _, h := range hosts {
		s.hosts[h.HostKey] = h
	}

	return s
}

func (s *fakeStore) ReadOne(_ context.Context, hostKey string) (persistence.Host, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readsOne++

	if s.readErr != nil {
		return persistence.Host{}, s.readErr
	}

	h, ok := s.hosts[hostKey]
	if !ok {
		return persistence.Host{}, persistence.ErrNotFound
	}

	return h, nil
}

func (s *fakeStore) ReadAll(_ context.Context) ([]persistence.Host, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readsAll++

	if s.readErr != nil {
		return nil, s.readErr
	}

	var hosts []persistence.Host
	for _, h := range s.hosts {
		hosts = append(hosts, h)
	}

	sort.Slice(hosts, func(i, j int) bool { return hosts[i].HostKey < hosts[j].HostKey })

	return hosts, nil
}

func (s *fakeStore) Update(_ context.Context, hostKey string, u persistence.HostUpdate) error {
	if s.onUpdate != nil {
		s.onUpdate(hostKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAfter >= 0 && s.updates >= s.failAfter {
		return errBroken
	}

	h, ok := s.hosts[hostKey]
	if !ok {
		return persistence.ErrNotFound
	}

	if u.IfDisconnected != nil && h.Disconnected != *u.IfDisconnected {
		return persistence.ErrConflict
	}

	if u.LastCheckin != nil {
		h.LastCheckin = *u.LastCheckin
	}
	if u.Disconnected != nil {
		h.Disconnected = *u.Disconnected
	}

	s.hosts[hostKey] = h
	s.updates++

	return nil
}

func (s *fakeStore) host(key string) persistence.Host {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hosts[key]
}

func (s *fakeStore) set(h persistence.Host) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hosts[h.HostKey] = h
}

type sentAlert struct {
	Title    string
	Message  string
	Priority notify.Priority
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentAlert
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, title, message string, priority notify.Priority) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.sent = append(n.sent, sentAlert{Title: title, Message: message, Priority: priority})

	return n.err
}

func (n *fakeNotifier) alerts() []sentAlert {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]sentAlert(nil), n.sent...)
}
