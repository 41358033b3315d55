package models

// CatalogStats summarizes the catalog over each property's latest snapshot.
type CatalogStats struct {
	TotalProperties        int     `json:"total_properties"`
	TotalSnapshots         int     `json:"total_snapshots"`
	AveragePriceBRL        float64 `json:"average_price_brl"`
	AveragePricePerM2BRL   float64 `json:"average_price_per_m2_brl"`
	ReadyUnits             int     `json:"ready_units"`
	UnderConstructionUnits int     `json:"under_construction_units"`
	OffPlanUnits           int     `json:"off_plan_units"`
}
