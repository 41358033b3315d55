package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imobiliaria/server/internal/models"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func testProperty(id, title string) *models.Property {
	return &models.Property{
		ID:        id,
		BasicInfo: models.BasicInfo{Title: title, Developer: "Construtora Litoral"},
		Location: models.Location{
			Neighborhood:  models.NeighborhoodCaboBranco,
			PositionToSea: models.PositionBeiraMar,
		},
		Features: models.Features{
			AreaM2:         120,
			SunOrientation: models.OrientationNascente,
			Bedrooms:       3,
		},
	}
}

func testSnapshot(day int, price float64) models.PropertySnapshot {
	return models.PropertySnapshot{
		Timestamp:     time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC),
		PriceBRL:      price,
		PricePerM2BRL: price / 120,
		Status:        models.StatusPronto,
		Source:        models.DefaultSnapshotSource,
	}
}

func TestGenerateID_Unique(t *testing.T) {
	db := setupTestDB(t)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := db.GenerateID()
		assert.Len(t, id, 36)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestGetProperty_Missing(t *testing.T) {
	db := setupTestDB(t)
	prop, err := db.GetProperty(context.Background(), "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, prop)
}

func TestSaveProperty_CreateAndReload(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	prop := testProperty("p1", "Edificio Mar Azul")
	snap := testSnapshot(1, 850000)
	require.NoError(t, db.SaveProperty(ctx, prop, &snap))

	loaded, err := db.GetProperty(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Edificio Mar Azul", loaded.BasicInfo.Title)
	assert.Equal(t, models.NeighborhoodCaboBranco, loaded.Location.Neighborhood)
	require.Len(t, loaded.Snapshots, 1)
	assert.Equal(t, 850000.0, loaded.Snapshots[0].PriceBRL)
	assert.Equal(t, "p1", loaded.Snapshots[0].PropertyID)
}

func TestSaveProperty_LatestWinsAndSnapshotAppend(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := testProperty("p1", "Titulo antigo")
	firstSnap := testSnapshot(1, 850000)
	require.NoError(t, db.SaveProperty(ctx, first, &firstSnap))

	second := testProperty("p1", "Titulo novo")
	second.Features.Bedrooms = 4
	secondSnap := testSnapshot(15, 870000)
	require.NoError(t, db.SaveProperty(ctx, second, &secondSnap))

	loaded, err := db.GetProperty(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Titulo novo", loaded.BasicInfo.Title)
	assert.Equal(t, 4, loaded.Features.Bedrooms)

	require.Len(t, loaded.Snapshots, 2)
	assert.Equal(t, 850000.0, loaded.Snapshots[0].PriceBRL)
	assert.Equal(t, 870000.0, loaded.Snapshots[1].PriceBRL)

	latest := loaded.LatestSnapshot()
	require.NotNil(t, latest)
	assert.Equal(t, 870000.0, latest.PriceBRL)
}

func TestSaveProperty_SnapshotsOrderedByTimestamp(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Insert out of chronological order.
	prop := testProperty("p1", "Edificio Mar Azul")
	for _, day := range []int{20, 5, 12} {
		snap := testSnapshot(day, float64(500000+day))
		require.NoError(t, db.SaveProperty(ctx, prop, &snap))
	}

	loaded, err := db.GetProperty(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, loaded.Snapshots, 3)
	assert.Equal(t, 5, loaded.Snapshots[0].Timestamp.Day())
	assert.Equal(t, 12, loaded.Snapshots[1].Timestamp.Day())
	assert.Equal(t, 20, loaded.Snapshots[2].Timestamp.Day())
}

func TestGetAllProperties_NeighborhoodFilter(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	caboBranco := testProperty("p1", "Em Cabo Branco")
	snap1 := testSnapshot(1, 850000)
	require.NoError(t, db.SaveProperty(ctx, caboBranco, &snap1))

	tambau := testProperty("p2", "Em Tambau")
	tambau.Location.Neighborhood = models.NeighborhoodTambau
	snap2 := testSnapshot(2, 600000)
	require.NoError(t, db.SaveProperty(ctx, tambau, &snap2))

	all, err := db.GetAllProperties(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := db.GetAllProperties(ctx, "Tambau")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "p2", filtered[0].ID)
	require.Len(t, filtered[0].Snapshots, 1)
}

func TestGetSnapshots(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	prop := testProperty("p1", "Edificio Mar Azul")
	for _, day := range []int{3, 1, 2} {
		snap := testSnapshot(day, float64(800000+day*1000))
		require.NoError(t, db.SaveProperty(ctx, prop, &snap))
	}

	snapshots, err := db.GetSnapshots(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.True(t, snapshots[0].Timestamp.Before(snapshots[1].Timestamp))
	assert.True(t, snapshots[1].Timestamp.Before(snapshots[2].Timestamp))

	none, err := db.GetSnapshots(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetCatalogStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ready := testProperty("p1", "Pronto")
	readyOld := testSnapshot(1, 700000)
	require.NoError(t, db.SaveProperty(ctx, ready, &readyOld))
	readyNew := testSnapshot(10, 800000)
	require.NoError(t, db.SaveProperty(ctx, ready, &readyNew))

	offPlan := testProperty("p2", "Na planta")
	offPlanSnap := testSnapshot(5, 400000)
	offPlanSnap.Status = models.StatusNaPlanta
	require.NoError(t, db.SaveProperty(ctx, offPlan, &offPlanSnap))

	stats, err := db.GetCatalogStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProperties)
	assert.Equal(t, 3, stats.TotalSnapshots)
	// Averages use only each property's latest snapshot.
	assert.InDelta(t, 600000, stats.AveragePriceBRL, 0.01)
	assert.Equal(t, 1, stats.ReadyUnits)
	assert.Equal(t, 1, stats.OffPlanUnits)
	assert.Equal(t, 0, stats.UnderConstructionUnits)
}

func TestGetCatalogStats_Empty(t *testing.T) {
	db := setupTestDB(t)
	stats, err := db.GetCatalogStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalProperties)
	assert.Equal(t, 0.0, stats.AveragePriceBRL)
}

func TestGetPropertiesMissingCoordinates(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	located := testProperty("p1", "Com coordenadas")
	located.Location.Coordinates = models.Coordinates{Lat: -7.1357, Lng: -34.8306}
	snap1 := testSnapshot(1, 850000)
	require.NoError(t, db.SaveProperty(ctx, located, &snap1))

	unlocated := testProperty("p2", "Sem coordenadas")
	snap2 := testSnapshot(2, 600000)
	require.NoError(t, db.SaveProperty(ctx, unlocated, &snap2))

	missing, err := db.GetPropertiesMissingCoordinates(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "p2", missing[0].ID)
}

func TestUpdateLocation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	prop := testProperty("p1", "Edificio Mar Azul")
	snap := testSnapshot(1, 850000)
	require.NoError(t, db.SaveProperty(ctx, prop, &snap))

	updated := prop.Location
	updated.Coordinates = models.Coordinates{Lat: -7.12, Lng: -34.83}
	updated.DistanceToBeachMeters = 150
	updated.PositionToSea = models.PositionQuadraMar
	require.NoError(t, db.UpdateLocation(ctx, "p1", updated))

	loaded, err := db.GetProperty(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, -7.12, loaded.Location.Coordinates.Lat)
	assert.Equal(t, models.PositionQuadraMar, loaded.Location.PositionToSea)
	assert.Equal(t, 150.0, loaded.Location.DistanceToBeachMeters)
}
