// Package dbstore persists the history in a sqlite database, for
// installations that prefer a queryable database file over the JSON
// document written by filestore.
package dbstore

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clipkeep/clipkeep/internal/domain"
	"github.com/clipkeep/clipkeep/internal/store"
)

// SQLiteStore implements store.Store on top of a sqlite database.
// Like the JSON document store it treats every save as a full rewrite
// of the history, so the table always mirrors the in-memory sequence.
type SQLiteStore struct {
	db     *gorm.DB
	dbPath string
}

var _ store.Store = (*SQLiteStore)(nil)

// New opens (or creates) the sqlite database at dbPath and prepares
// the history table.
func New(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&EntryModel{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Load reads the persisted history in capture order, newest first.
func (s *SQLiteStore) Load() ([]domain.Entry, error) {
	var models []EntryModel
	if err := s.db.Order("position ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("read history rows: %w", err)
	}

	entries := make([]domain.Entry, 0, len(models))
	for _, m := range models {
		entry, err := m.toEntry()
		if err != nil {
			return nil, fmt.Errorf("decode history row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Save replaces the stored history with the given sequence. The delete
// and the inserts run in one transaction so a failure leaves the
// previous history intact.
func (s *SQLiteStore) Save(entries []domain.Entry) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&EntryModel{}).Error; err != nil {
			return fmt.Errorf("clear history rows: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}

		models := make([]EntryModel, len(entries))
		for i, e := range entries {
			models[i] = fromEntry(i, e)
		}
		if err := tx.CreateInBatches(models, 100).Error; err != nil {
			return fmt.Errorf("insert history rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("access database connection: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
