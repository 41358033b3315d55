package database

import (
	"context"

	"gorm.io/gorm"

	"imobiliaria/server/internal/models"
)

// GetAllProperties returns the catalog with snapshot histories, optionally
// filtered by neighborhood.
func (d *Database) GetAllProperties(ctx context.Context, neighborhood string) ([]models.Property, error) {
	query := d.db.WithContext(ctx).
		Preload("Snapshots", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("timestamp ASC, id ASC")
		}).
		Order("created_at ASC")

	if neighborhood != "" {
		query = query.Where("json_extract(location, '$.neighborhood') = ?", neighborhood)
	}

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// GetSnapshots returns the snapshot history for one property, oldest first.
func (d *Database) GetSnapshots(ctx context.Context, propertyID string) ([]models.PropertySnapshot, error) {
	var snapshots []models.PropertySnapshot
	err := d.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("timestamp ASC, id ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// GetCatalogStats aggregates the catalog over each property's most recent
// snapshot.
func (d *Database) GetCatalogStats(ctx context.Context) (models.CatalogStats, error) {
	query := `
        WITH latest AS (
            SELECT s.property_id, s.price_brl, s.price_per_m2_brl, s.status
            FROM property_snapshots s
            JOIN (
                SELECT property_id, MAX(timestamp) AS max_ts
                FROM property_snapshots
                GROUP BY property_id
            ) m ON s.property_id = m.property_id AND s.timestamp = m.max_ts
            GROUP BY s.property_id
        )
        SELECT
            COUNT(*) AS total_properties,
            (SELECT COUNT(*) FROM property_snapshots) AS total_snapshots,
            COALESCE(AVG(price_brl), 0) AS average_price_brl,
            COALESCE(AVG(price_per_m2_brl), 0) AS average_price_per_m2_brl,
            COALESCE(SUM(CASE WHEN status = 'pronto' THEN 1 ELSE 0 END), 0) AS ready_units,
            COALESCE(SUM(CASE WHEN status = 'em_construcao' THEN 1 ELSE 0 END), 0) AS under_construction_units,
            COALESCE(SUM(CASE WHEN status = 'na_planta' THEN 1 ELSE 0 END), 0) AS off_plan_units
        FROM latest
    `

	var stats models.CatalogStats
	err := d.db.WithContext(ctx).Raw(query).Scan(&stats).Error
	return stats, err
}

// GetPropertiesMissingCoordinates returns catalog records whose extraction
// left the coordinates unset.
func (d *Database) GetPropertiesMissingCoordinates(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := d.db.WithContext(ctx).
		Where("COALESCE(json_extract(location, '$.coordinates.lat'), 0) = 0").
		Where("COALESCE(json_extract(location, '$.coordinates.lng'), 0) = 0").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// UpdateLocation replaces one property's location column wholesale.
func (d *Database) UpdateLocation(ctx context.Context, id string, location models.Location) error {
	return d.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ?", id).
		Update("location", location).Error
}
