package database

import "imobiliaria/server/internal/models"

func (d *Database) RunMigrations() error {
	return d.db.AutoMigrate(
		&models.Property{},
		&models.PropertySnapshot{},
	)
}
