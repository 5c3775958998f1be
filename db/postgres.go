package db

import (
	"context"

	"github.com/jsphweid/chordex/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// PostgresStore is the production catalog, the public.piano_chords table.
type PostgresStore struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*PostgresStore, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return NewPostgresStore(gdb)
}

// NewPostgresStore migrates the chord table on an existing connection.
func NewPostgresStore(gdb *gorm.DB) (*PostgresStore, error) {
	if err := gdb.AutoMigrate(&model.CatalogRow{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: gdb}, nil
}

func (s *PostgresStore) ListChords(ctx context.Context) ([]model.CatalogRow, error) {
	var rows []model.CatalogRow
	if err := s.db.WithContext(ctx).Order("chord_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgresStore) UpsertChords(ctx context.Context, rows []model.CatalogRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, 200).Error
}

func (s *PostgresStore) UpdateNotes(ctx context.Context, id string, notes []string) error {
	res := s.db.WithContext(ctx).
		Model(&model.CatalogRow{}).
		Where("id = ?", id).
		Select("notes").
		Updates(model.CatalogRow{Notes: notes})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func (s *PostgresStore) DeleteChords(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("id IN ?", ids).Delete(&model.CatalogRow{}).Error
	})
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
