package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/lagren/checkinguard/config"
	"github.com/lagren/checkinguard/monitor"
	"github.com/lagren/checkinguard/notify"
	"github.com/lagren/checkinguard/persistence"
	"github.com/lagren/checkinguard/pushover"
	"github.com/lagren/checkinguard/slack"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Could not load configuration: %s", err)
	}

	logrus.SetLevel(cfg.LogLevel)

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Could not open database: %s", err)
	}

	store := persistence.NewStore(db)
	if err := store.Migrate(); err != nil {
		logrus.Fatalf("Could not migrate database: %s", err)
	}

	m := monitor.New(store, newNotifier(cfg), cfg.Policy, monitor.WithLocation(cfg.Location))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runSweeps(ctx, m, cfg.SweepInterval)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handlers.LoggingHandler(os.Stdout, newRouter(m, cfg.LocalDev)),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Warnf("Could not shut down cleanly: %s", err)
		}
	}()

	logrus.Infof("Listening on %s (%s threshold policy, sweeping every %s)", cfg.ListenAddr, cfg.Policy.Kind, cfg.SweepInterval)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatalf("Could not serve: %s", err)
	}
}

func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.LocalDev {
		return &notify.Log{}
	}

	if cfg.Notifier == config.NotifierSlack {
		return slack.New(cfg.SlackToken, cfg.SlackChannelID)
	}

	return pushover.New(cfg.PushoverAppToken, cfg.PushoverUserKey)
}

// runSweeps triggers a sweep on every tick until ctx is done. Each sweep is
// bounded by the interval so a stuck cycle never overlaps the next one.
func runSweeps(ctx context.Context, m *monitor.Monitor, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case scheduled := <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, interval)

			if err := m.Sweep(sweepCtx, scheduled); err != nil {
				logrus.Errorf("Sweep aborted: %s", err)
			}

			cancel()
		}
	}
}
