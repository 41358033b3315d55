package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"imobiliaria/server/internal/models"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// GenerateID returns a fresh store-assigned property id.
func (d *Database) GenerateID() string {
	return uuid.NewString()
}

// GetProperty loads one property with its full snapshot history ordered by
// observation time. A missing id returns (nil, nil).
func (d *Database) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	var prop models.Property
	err := d.db.WithContext(ctx).
		Preload("Snapshots", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("timestamp ASC, id ASC")
		}).
		First(&prop, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prop, nil
}

// SaveProperty persists one reconciled record in a single transaction: the
// latest-wins columns of the property row are upserted and the new snapshot
// is inserted as its own row. The snapshot append never touches existing
// rows, so concurrent saves for the same id each keep their observation.
func (d *Database) SaveProperty(ctx context.Context, prop *models.Property, snapshot *models.PropertySnapshot) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := *prop
		record.Snapshots = nil

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"basic_info", "location", "features", "ai_context", "updated_at"}),
		}).Create(&record).Error
		if err != nil {
			return err
		}

		snap := *snapshot
		snap.ID = 0
		snap.PropertyID = record.ID
		return tx.Create(&snap).Error
	})
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}
