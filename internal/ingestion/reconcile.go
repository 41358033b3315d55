package ingestion

import "imobiliaria/server/internal/models"

// Reconcile merges a validated incoming record, carrying exactly one new
// snapshot, against the stored record for the same id.
//
// With no existing record the incoming one is the result verbatim. Otherwise
// the existing snapshot history is kept in full and the incoming snapshot is
// appended; duplicates by value or timestamp are preserved since they are
// repeated observations, not noise. All non-snapshot fields are replaced
// wholesale by the incoming values, and the stored id wins over whatever the
// incoming payload claimed.
func Reconcile(existing, incoming *models.Property) *models.Property {
	if existing == nil {
		return incoming
	}

	merged := *incoming
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt

	merged.Snapshots = make([]models.PropertySnapshot, 0, len(existing.Snapshots)+len(incoming.Snapshots))
	merged.Snapshots = append(merged.Snapshots, existing.Snapshots...)
	merged.Snapshots = append(merged.Snapshots, incoming.Snapshots...)
	for i := range merged.Snapshots {
		merged.Snapshots[i].PropertyID = existing.ID
	}

	return &merged
}
