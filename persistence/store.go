package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("host not found")
	ErrConflict = errors.New("host status changed concurrently")
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the hosts table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Host{})
}

func (s *Store) Provision(ctx context.Context, host Host) error {
	if host.HostKey == "" {
		return fmt.Errorf("missing host key")
	}

	return s.db.WithContext(ctx).Create(&host).Error
}

func (s *Store) ReadOne(ctx context.Context, hostKey string) (Host, error) {
	var host Host

	err := s.db.WithContext(ctx).First(&host, "host_key = ?", hostKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Host{}, ErrNotFound
	}
	if err != nil {
		return Host{}, err
	}

	return host, nil
}

func (s *Store) ReadAll(ctx context.Context) ([]Host, error) {
	var hosts []Host

	if err := s.db.WithContext(ctx).Order("host_key").Find(&hosts).Error; err != nil {
		return nil, err
	}

	return hosts, nil
}

// Update applies u to the host identified by hostKey in a single statement.
// It returns ErrConflict when a precondition was given and did not hold, and
// ErrNotFound when no row matched otherwise.
func (s *Store) Update(ctx context.Context, hostKey string, u HostUpdate) error {
	fields := u.fields()
	if len(fields) == 0 {
		return nil
	}

	tx := s.db.WithContext(ctx).Model(&Host{}).Where("host_key = ?", hostKey)
	if u.IfDisconnected != nil {
		tx = tx.Where("disconnected = ?", *u.IfDisconnected)
	}

	res := tx.Updates(fields)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		if u.IfDisconnected != nil {
			return ErrConflict
		}

		return ErrNotFound
	}

	return nil
}
