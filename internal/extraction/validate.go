package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"imobiliaria/server/internal/models"
)

// rawExtraction mirrors the schema the model is asked to produce. Every leaf
// is loosely typed so that validation, not JSON decoding, reports the
// offending field. Unknown extra fields in the response are ignored.
type rawExtraction struct {
	ID        string `json:"id"`
	BasicInfo struct {
		Title        string `json:"title"`
		Developer    string `json:"developer"`
		DeliveryDate string `json:"delivery_date"`
	} `json:"basic_info"`
	Location struct {
		Neighborhood          string   `json:"neighborhood"`
		PositionToSea         string   `json:"position_to_sea"`
		DistanceToBeachMeters *float64 `json:"distance_to_beach_meters"`
		Coordinates           struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"coordinates"`
	} `json:"location"`
	Features struct {
		AreaM2         *float64 `json:"area_m2"`
		SunOrientation string   `json:"sun_orientation"`
		Bedrooms       *int     `json:"bedrooms"`
	} `json:"features"`
	AIContext struct {
		TargetPersona                 []string `json:"target_persona"`
		InvestmentROIEstimatedPercent float64  `json:"investment_roi_estimated_percent"`
		LocalAdvantage                string   `json:"local_advantage"`
	} `json:"ai_context"`
	Snapshot  *rawSnapshot  `json:"snapshot"`
	Snapshots []rawSnapshot `json:"snapshots"`
}

type rawSnapshot struct {
	Timestamp     string   `json:"timestamp"`
	PriceBRL      *float64 `json:"price_brl"`
	PricePerM2BRL *float64 `json:"price_per_m2_brl"`
	Status        string   `json:"status"`
	Source        string   `json:"source"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// stripFences removes markdown code fences some models wrap around JSON
// output even when asked not to.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseProperty validates and coerces the model's raw text response into a
// Property carrying exactly one new snapshot. The returned record has no
// store identity yet: its ID is whatever the response carried, possibly
// empty, and the snapshot's PropertyID is unset.
//
// Defaulting is limited to the two documented rules: a snapshot without a
// timestamp gets now, one without a source gets models.DefaultSnapshotSource.
// Everything else either validates or fails with a *ValidationError naming
// the field.
func ParseProperty(raw string, now time.Time) (*models.Property, error) {
	var ext rawExtraction
	if err := json.Unmarshal([]byte(stripFences(raw)), &ext); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
	}

	if ext.BasicInfo.Title == "" {
		return nil, newValidationError("basic_info.title", "required")
	}

	var deliveryDate time.Time
	if ext.BasicInfo.DeliveryDate != "" {
		t, err := parseDate(ext.BasicInfo.DeliveryDate)
		if err != nil {
			return nil, newValidationError("basic_info.delivery_date", err.Error())
		}
		deliveryDate = t
	}

	neighborhood := models.Neighborhood(ext.Location.Neighborhood)
	if !neighborhood.Valid() {
		return nil, newValidationError("location.neighborhood",
			fmt.Sprintf("%q is not a known neighborhood", ext.Location.Neighborhood))
	}

	position := models.PositionToSea(ext.Location.PositionToSea)
	if !position.Valid() {
		return nil, newValidationError("location.position_to_sea",
			fmt.Sprintf("%q is not a known position", ext.Location.PositionToSea))
	}

	var distance float64
	if ext.Location.DistanceToBeachMeters != nil {
		if *ext.Location.DistanceToBeachMeters < 0 {
			return nil, newValidationError("location.distance_to_beach_meters", "must be non-negative")
		}
		distance = *ext.Location.DistanceToBeachMeters
	}

	if ext.Features.AreaM2 == nil {
		return nil, newValidationError("features.area_m2", "required")
	}
	if *ext.Features.AreaM2 <= 0 {
		return nil, newValidationError("features.area_m2", "must be positive")
	}

	orientation := models.SunOrientation(ext.Features.SunOrientation)
	if !orientation.Valid() {
		return nil, newValidationError("features.sun_orientation",
			fmt.Sprintf("%q is not a known orientation", ext.Features.SunOrientation))
	}

	if ext.Features.Bedrooms == nil {
		return nil, newValidationError("features.bedrooms", "required")
	}
	if *ext.Features.Bedrooms < 0 {
		return nil, newValidationError("features.bedrooms", "must be non-negative")
	}

	if ext.AIContext.InvestmentROIEstimatedPercent < 0 {
		return nil, newValidationError("ai_context.investment_roi_estimated_percent", "must be non-negative")
	}

	snapshot, err := resolveSnapshot(&ext, now)
	if err != nil {
		return nil, err
	}

	return &models.Property{
		ID: ext.ID,
		BasicInfo: models.BasicInfo{
			Title:        ext.BasicInfo.Title,
			Developer:    ext.BasicInfo.Developer,
			DeliveryDate: deliveryDate,
		},
		Location: models.Location{
			Neighborhood:          neighborhood,
			PositionToSea:         position,
			DistanceToBeachMeters: distance,
			Coordinates: models.Coordinates{
				Lat: ext.Location.Coordinates.Lat,
				Lng: ext.Location.Coordinates.Lng,
			},
		},
		Features: models.Features{
			AreaM2:         *ext.Features.AreaM2,
			SunOrientation: orientation,
			Bedrooms:       *ext.Features.Bedrooms,
		},
		AIContext: models.AIContext{
			TargetPersona:                 ext.AIContext.TargetPersona,
			InvestmentROIEstimatedPercent: ext.AIContext.InvestmentROIEstimatedPercent,
			LocalAdvantage:                ext.AIContext.LocalAdvantage,
		},
		Snapshots: []models.PropertySnapshot{*snapshot},
	}, nil
}

// resolveSnapshot accepts either the singular "snapshot" object the prompt
// asks for or a one-element "snapshots" array; every ingestion carries
// exactly one new market observation.
func resolveSnapshot(ext *rawExtraction, now time.Time) (*models.PropertySnapshot, error) {
	var raw *rawSnapshot
	switch {
	case ext.Snapshot != nil:
		raw = ext.Snapshot
	case len(ext.Snapshots) == 1:
		raw = &ext.Snapshots[0]
	case len(ext.Snapshots) > 1:
		return nil, newValidationError("snapshots", "exactly one market observation per ingestion")
	default:
		return nil, newValidationError("snapshots", "one market observation is required")
	}

	if raw.PriceBRL == nil {
		return nil, newValidationError("snapshot.price_brl", "required")
	}
	if *raw.PriceBRL < 0 {
		return nil, newValidationError("snapshot.price_brl", "must be non-negative")
	}
	if raw.PricePerM2BRL == nil {
		return nil, newValidationError("snapshot.price_per_m2_brl", "required")
	}
	if *raw.PricePerM2BRL < 0 {
		return nil, newValidationError("snapshot.price_per_m2_brl", "must be non-negative")
	}

	status := models.ConstructionStatus(raw.Status)
	if !status.Valid() {
		return nil, newValidationError("snapshot.status",
			fmt.Sprintf("%q is not a known status", raw.Status))
	}

	timestamp := now
	if raw.Timestamp != "" {
		t, err := parseDate(raw.Timestamp)
		if err != nil {
			return nil, newValidationError("snapshot.timestamp", err.Error())
		}
		timestamp = t
	}

	source := raw.Source
	if source == "" {
		source = models.DefaultSnapshotSource
	}

	return &models.PropertySnapshot{
		Timestamp:     timestamp,
		PriceBRL:      *raw.PriceBRL,
		PricePerM2BRL: *raw.PricePerM2BRL,
		Status:        status,
		Source:        source,
	}, nil
}
