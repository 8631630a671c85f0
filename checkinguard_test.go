package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/lagren/checkinguard/monitor"
	"github.com/lagren/checkinguard/notify"
	"github.com/lagren/checkinguard/persistence"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestMonitor(t *testing.T) (*monitor.Monitor, *persistence.Store, *test.Hook) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	store := persistence.NewStore(db)
	require.NoError(t, store.Migrate())
	require.NoError(t, store.Provision(context.Background(), persistence.Host{
		HostKey:      "s3cr3t",
		Hostname:     "web-1",
		LastCheckin:  time.Now().Add(-time.Hour).Unix(),
		Disconnected: true,
	}))

	log, hook := test.NewNullLogger()

	m := monitor.New(store, &notify.Log{Logger: log}, monitor.DefaultPolicy(monitor.DualThreshold), monitor.WithLogger(log))

	return m, store, hook
}

func TestCheckinHandler(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing_key", "/", http.StatusBadRequest},
		{"empty_key", "/?hostkey=", http.StatusBadRequest},
		{"unknown_key", "/?hostkey=guess", http.StatusUnauthorized},
		{"known_key", "/?hostkey=s3cr3t", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestMonitor(t)

			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()

			newRouter(m, false).ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			assert.Empty(t, w.Body.String())
		})
	}
}

func TestCheckinHandlerRecovers(t *testing.T) {
	m, store, hook := newTestMonitor(t)

	before := time.Now().Unix()

	w := httptest.NewRecorder()
	newRouter(m, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?hostkey=s3cr3t", nil))
	require.Equal(t, http.StatusOK, w.Code)

	h, err := store.ReadOne(context.Background(), "s3cr3t")
	require.NoError(t, err)
	assert.False(t, h.Disconnected)
	assert.GreaterOrEqual(t, h.LastCheckin, before)

	var titles []interface{}
	for _, e := range hook.AllEntries() {
		if title, ok := e.Data["title"]; ok {
			titles = append(titles, title)
		}
	}
	assert.Equal(t, []interface{}{"web-1 is back online!"}, titles)
}

func TestCheckinHandlerStoreFailure(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "empty.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	// Never migrated: reads fail with a database error rather than not-found.
	m := monitor.New(persistence.NewStore(db), &notify.Log{}, monitor.DefaultPolicy(monitor.DualThreshold))

	w := httptest.NewRecorder()
	newRouter(m, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?hostkey=s3cr3t", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestScheduledHandler(t *testing.T) {
	m, store, _ := newTestMonitor(t)

	require.NoError(t, store.Update(context.Background(), "s3cr3t", persistence.HostUpdate{Disconnected: new(bool)}))

	t.Run("not_routed_outside_local_dev", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(m, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/__scheduled", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("local_dev", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(m, true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/__scheduled?cron=*+*+*+*+*", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)

		h, err := store.ReadOne(context.Background(), "s3cr3t")
		require.NoError(t, err)
		assert.True(t, h.Disconnected)
	})
}
