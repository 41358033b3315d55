package models

// RawListing is one unstructured listing capture waiting for ingestion,
// typically produced by the page scraper.
type RawListing struct {
	Source  string `json:"source"`
	URL     string `json:"url"`
	RawText string `json:"raw_text"`
}

// Payload shapes the listing the way the ingestion pipeline accepts it.
func (l RawListing) Payload() map[string]any {
	return map[string]any{
		"source":   l.Source,
		"url":      l.URL,
		"raw_text": l.RawText,
	}
}
