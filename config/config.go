package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/lagren/checkinguard/monitor"
	"github.com/sirupsen/logrus"
)

const (
	NotifierPushover = "pushover"
	NotifierSlack    = "slack"

	localDevValue = "local-dev"
)

type Config struct {
	ListenAddr    string
	DatabasePath  string
	Policy        monitor.Policy
	SweepInterval time.Duration
	Location      *time.Location
	LogLevel      logrus.Level

	Notifier         string
	PushoverAppToken string
	PushoverUserKey  string
	SlackToken       string
	SlackChannelID   string

	// LocalDev disables real alert delivery.
	LocalDev bool
}

// Load reads .env, if present, into the environment and builds a Config from it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}

		return def
	}

	var err error

	c := &Config{
		ListenAddr:       get("LISTEN_ADDR", "127.0.0.1:8080"),
		DatabasePath:     get("DATABASE_PATH", "checkinguard.db"),
		Notifier:         get("NOTIFIER", NotifierPushover),
		PushoverAppToken: getenv("PO_APPTOKEN"),
		PushoverUserKey:  getenv("PO_USERKEY"),
		SlackToken:       getenv("SLACK_MESSAGE_KEY"),
		SlackChannelID:   getenv("SLACK_CHANNEL_ID"),
		LocalDev:         getenv("IS_LOCAL_DEV") == localDevValue,
	}

	kind := monitor.PolicyKind(get("THRESHOLD_POLICY", string(monitor.DualThreshold)))
	if kind != monitor.SingleThreshold && kind != monitor.DualThreshold {
		return nil, fmt.Errorf("THRESHOLD_POLICY: unknown policy %q", kind)
	}

	c.Policy = monitor.DefaultPolicy(kind)

	if v := get("DISCONNECTION_THRESHOLD", ""); v != "" {
		if c.Policy.DisconnectionThreshold, err = parseSeconds(v); err != nil {
			return nil, fmt.Errorf("DISCONNECTION_THRESHOLD: %w", err)
		}
	}

	if v := get("RECONNECTION_THRESHOLD", ""); v != "" && kind == monitor.DualThreshold {
		if c.Policy.ReconnectionThreshold, err = parseSeconds(v); err != nil {
			return nil, fmt.Errorf("RECONNECTION_THRESHOLD: %w", err)
		}
	}

	if err := c.Policy.Validate(); err != nil {
		return nil, err
	}

	if c.SweepInterval, err = time.ParseDuration(get("SWEEP_INTERVAL", "1m")); err != nil {
		return nil, fmt.Errorf("SWEEP_INTERVAL: %w", err)
	}
	if c.SweepInterval <= 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL: must be positive, got %s", c.SweepInterval)
	}

	if c.Location, err = time.LoadLocation(get("TIMEZONE", "Australia/Melbourne")); err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}

	if c.LogLevel, err = logrus.ParseLevel(get("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if err := c.validateNotifier(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) validateNotifier() error {
	switch c.Notifier {
	case NotifierPushover:
		if !c.LocalDev && (c.PushoverAppToken == "" || c.PushoverUserKey == "") {
			return fmt.Errorf("PO_APPTOKEN and PO_USERKEY are required")
		}
	case NotifierSlack:
		if !c.LocalDev && (c.SlackToken == "" || c.SlackChannelID == "") {
			return fmt.Errorf("SLACK_MESSAGE_KEY and SLACK_CHANNEL_ID are required")
		}
	default:
		return fmt.Errorf("NOTIFIER: unknown notifier %q", c.Notifier)
	}

	return nil
}

func parseSeconds(v string) (int64, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number of seconds: %q", v)
	}

	return n, nil
}
