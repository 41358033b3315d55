package config

// Neighborhood holds map defaults for one tracked neighborhood
type Neighborhood struct {
	Name      string    `json:"name"`
	Center    []float64 `json:"center"`
	ZoomLevel int       `json:"zoom_level"`
}

// SupportedNeighborhoods lists the beachfront neighborhoods covered by the catalog
var SupportedNeighborhoods = []Neighborhood{
	{
		Name:      "CaboBranco",
		Center:    []float64{-7.1357, -34.8306},
		ZoomLevel: 15,
	},
	{
		Name:      "Tambau",
		Center:    []float64{-7.1179, -34.8247},
		ZoomLevel: 15,
	},
}

// GetNeighborhoodNames returns the names of all supported neighborhoods
func GetNeighborhoodNames() []string {
	names := make([]string, len(SupportedNeighborhoods))
	for i, n := range SupportedNeighborhoods {
		names[i] = n.Name
	}
	return names
}

// GetNeighborhoodByName returns a neighborhood configuration by name
func GetNeighborhoodByName(name string) *Neighborhood {
	for _, n := range SupportedNeighborhoods {
		if n.Name == name {
			return &n
		}
	}
	return nil
}
