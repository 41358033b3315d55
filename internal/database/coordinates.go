package database

import (
	"context"

	"imobiliaria/server/internal/geo"
	"imobiliaria/server/internal/geocoding"
	"imobiliaria/server/internal/models"
)

// UpdateMissingCoordinates backfills coordinates for catalog records whose
// extraction left them unset, then re-derives the beach distance and the
// position classification from the resolved point. Returns how many records
// were updated. Records that fail to geocode are skipped, not fatal.
func (d *Database) UpdateMissingCoordinates(ctx context.Context, geocoder *geocoding.Geocoder) (int, error) {
	properties, err := d.GetPropertiesMissingCoordinates(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, prop := range properties {
		lat, lng, err := geocoder.GeocodeListing(prop.BasicInfo.Title, string(prop.Location.Neighborhood))
		if err != nil {
			continue
		}

		location := prop.Location
		location.Coordinates = models.Coordinates{Lat: lat, Lng: lng}

		distance := geo.DistanceToBeach(location.Coordinates)
		if location.DistanceToBeachMeters == 0 {
			location.DistanceToBeachMeters = distance
		}
		location.PositionToSea = geo.ClassifyPosition(location.DistanceToBeachMeters)

		if err := d.UpdateLocation(ctx, prop.ID, location); err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}
