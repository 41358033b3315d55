package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imobiliaria/server/internal/models"
)

func TestDistanceToBeach(t *testing.T) {
	// A point on the shoreline itself is at distance zero.
	onShore := models.Coordinates{Lat: -7.1210, Lng: -34.8258}
	assert.InDelta(t, 0, DistanceToBeach(onShore), 1)

	// Avenida Cabo Branco runs along the beach; a point one block inland
	// should be within a few hundred meters.
	inland := models.Coordinates{Lat: -7.1300, Lng: -34.8300}
	d := DistanceToBeach(inland)
	assert.Greater(t, d, 100.0)
	assert.Less(t, d, 500.0)

	// Epitacio Pessoa corridor, deep in the miolo.
	deep := models.Coordinates{Lat: -7.1190, Lng: -34.8450}
	assert.Greater(t, DistanceToBeach(deep), 1000.0)
}

func TestClassifyPosition(t *testing.T) {
	tests := []struct {
		distance float64
		want     models.PositionToSea
	}{
		{0, models.PositionBeiraMar},
		{100, models.PositionBeiraMar},
		{101, models.PositionQuadraMar},
		{300, models.PositionQuadraMar},
		{301, models.PositionMiolo},
		{2500, models.PositionMiolo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyPosition(tt.distance))
	}
}
