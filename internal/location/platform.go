package location

import "context"

// Position is a device location fix.
type Position struct {
	Lat      float64
	Lng      float64
	Accuracy float64
}

// Positioner is the platform geolocation capability. Implementations
// should honor the context deadline; the resolver applies the configured
// GPS timeout.
type Positioner interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Transcriber is the platform speech-to-text capability. Transcribe blocks
// until a single final transcript is available.
type Transcriber interface {
	Transcribe(ctx context.Context) (string, error)
}
