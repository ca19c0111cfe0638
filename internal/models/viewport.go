package models

// Span describes how much of the map is visible, in degrees.
type Span struct {
	LatitudeDelta  float64 `json:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta"`
}

// Viewport is the visible map region.
type Viewport struct {
	Center Coordinates `json:"center"`
	Span   Span        `json:"span"`
}

// InitialViewport is shown before any device position is known.
func InitialViewport() Viewport {
	return Viewport{
		Center: Coordinates{Latitude: 60.1699, Longitude: 24.9384},
		Span:   Span{LatitudeDelta: 0.05, LongitudeDelta: 0.05},
	}
}

// FallbackViewport is used when centering on the device is requested but no position is available.
func FallbackViewport() Viewport {
	return Viewport{
		Center: Coordinates{Latitude: 61.4971, Longitude: 23.7526},
		Span:   Span{LatitudeDelta: 0.1, LongitudeDelta: 0.1},
	}
}
