package model

import "fmt"

// ResolutionSource identifies which input modality produced a location.
type ResolutionSource string

const (
	SourceManual     ResolutionSource = "manual"
	SourceVoice      ResolutionSource = "voice"
	SourceGPS        ResolutionSource = "gps"
	SourceMapPick    ResolutionSource = "map_pick"
	SourceRevGeocode ResolutionSource = "reverse_geocode"
)

// Coords is a WGS84 coordinate pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationDescriptor is the single normalized output of all four location
// input modalities. Coords is set only when the location came from a real
// positioning event (GPS fix, map pick), never derived from Name.
type LocationDescriptor struct {
	Name   string  `json:"name"`
	Coords *Coords `json:"coords,omitempty"`
}

// GPSFallbackName returns the deterministic display name used when reverse
// geocoding fails or returns no location for the given coordinates.
func GPSFallbackName(lat, lng float64) string {
	return fmt.Sprintf("GPS: %.4f, %.4f", lat, lng)
}
