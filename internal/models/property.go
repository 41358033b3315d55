package models

import "time"

// Neighborhood is one of the beachfront neighborhoods tracked by the catalog.
type Neighborhood string

const (
	NeighborhoodCaboBranco Neighborhood = "CaboBranco"
	NeighborhoodTambau     Neighborhood = "Tambau"
)

func (n Neighborhood) Valid() bool {
	switch n {
	case NeighborhoodCaboBranco, NeighborhoodTambau:
		return true
	}
	return false
}

// PositionToSea classifies how close a building sits to the shoreline.
type PositionToSea string

const (
	PositionBeiraMar  PositionToSea = "beira_mar"
	PositionQuadraMar PositionToSea = "quadra_mar"
	PositionMiolo     PositionToSea = "miolo"
)

func (p PositionToSea) Valid() bool {
	switch p {
	case PositionBeiraMar, PositionQuadraMar, PositionMiolo:
		return true
	}
	return false
}

// SunOrientation is the facade orientation relative to sunrise.
type SunOrientation string

const (
	OrientationNascente    SunOrientation = "nascente"
	OrientationNascenteSul SunOrientation = "nascente_sul"
	OrientationSul         SunOrientation = "sul"
	OrientationPoente      SunOrientation = "poente"
)

func (o SunOrientation) Valid() bool {
	switch o {
	case OrientationNascente, OrientationNascenteSul, OrientationSul, OrientationPoente:
		return true
	}
	return false
}

// ConstructionStatus is the delivery stage of a unit at observation time.
type ConstructionStatus string

const (
	StatusNaPlanta     ConstructionStatus = "na_planta"
	StatusEmConstrucao ConstructionStatus = "em_construcao"
	StatusPronto       ConstructionStatus = "pronto"
)

func (s ConstructionStatus) Valid() bool {
	switch s {
	case StatusNaPlanta, StatusEmConstrucao, StatusPronto:
		return true
	}
	return false
}

// DefaultSnapshotSource is recorded on snapshots whose extraction omits provenance.
const DefaultSnapshotSource = "admin_upload"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type BasicInfo struct {
	Title        string    `json:"title"`
	Developer    string    `json:"developer"`
	DeliveryDate time.Time `json:"delivery_date"`
}

type Location struct {
	Neighborhood          Neighborhood  `json:"neighborhood"`
	PositionToSea         PositionToSea `json:"position_to_sea"`
	DistanceToBeachMeters float64       `json:"distance_to_beach_meters"`
	Coordinates           Coordinates   `json:"coordinates"`
}

type Features struct {
	AreaM2         float64        `json:"area_m2"`
	SunOrientation SunOrientation `json:"sun_orientation"`
	Bedrooms       int            `json:"bedrooms"`
}

type AIContext struct {
	TargetPersona                 []string `json:"target_persona"`
	InvestmentROIEstimatedPercent float64  `json:"investment_roi_estimated_percent"`
	LocalAdvantage                string   `json:"local_advantage"`
}

// Property is the canonical record for one real-estate unit. The nested
// value structs are stored as JSON columns and replaced wholesale on every
// update; only the snapshot collection accumulates history.
type Property struct {
	ID        string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	BasicInfo BasicInfo          `gorm:"serializer:json" json:"basic_info"`
	Location  Location           `gorm:"serializer:json" json:"location"`
	Features  Features           `gorm:"serializer:json" json:"features"`
	AIContext AIContext          `gorm:"serializer:json" json:"ai_context"`
	Snapshots []PropertySnapshot `gorm:"foreignKey:PropertyID" json:"snapshots"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

// PropertySnapshot is one time-stamped market observation for a property.
// Rows are append-only: ingestion only ever inserts new ones, so duplicate
// timestamps are possible and preserved.
type PropertySnapshot struct {
	ID            uint               `gorm:"primaryKey;autoIncrement" json:"-"`
	PropertyID    string             `gorm:"type:varchar(36);not null;index:idx_snapshot_property_time" json:"-"`
	Timestamp     time.Time          `gorm:"not null;index:idx_snapshot_property_time,priority:2" json:"timestamp"`
	PriceBRL      float64            `gorm:"not null" json:"price_brl"`
	PricePerM2BRL float64            `gorm:"not null" json:"price_per_m2_brl"`
	Status        ConstructionStatus `gorm:"type:varchar(20);not null" json:"status"`
	Source        string             `gorm:"type:varchar(64);not null" json:"source"`
	CreatedAt     time.Time          `json:"-"`
}

func (PropertySnapshot) TableName() string {
	return "property_snapshots"
}

// LatestSnapshot returns the most recent snapshot, or nil when the record
// has none loaded. Snapshots are expected to be ordered by timestamp.
func (p *Property) LatestSnapshot() *PropertySnapshot {
	if len(p.Snapshots) == 0 {
		return nil
	}
	return &p.Snapshots[len(p.Snapshots)-1]
}
