// Package sqlitestore is the SQLite unit of work, built on gorm. It backs local
// runs and the test suites.
package sqlitestore

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MikeMC777/customer-orders/internal/store"
)

// Store runs every unit of work on a single connection, so writers serialize
// instead of failing with "database is locked".
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path with foreign keys enforced.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "sqlite handle")
	}
	sqlDB.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Migrate creates the customers and orders tables if they are missing.
func (s *Store) Migrate() error {
	return errors.Wrap(s.db.AutoMigrate(&customerRow{}, &orderRow{}), "auto-migrate")
}

func (s *Store) Do(ctx context.Context, fn func(tx store.Tx) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&gormTx{db: tx})
		return fnErr
	})
	if err != nil && fnErr == nil {
		return errors.Wrap(err, "commit")
	}
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
