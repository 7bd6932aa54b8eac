// Package render turns chart specs into live chart instances for the two
// consumers of this service: a browser charting library (Chart.js config
// objects) and image output (PNG through go-chart).
package render

import (
	"dataviz/internal/chart"
	apperrors "dataviz/internal/errors"

	"github.com/google/uuid"
)

// ErrReleased is returned when a released chart is used again.
var ErrReleased = apperrors.New(apperrors.CodeNotFound, "chart instance has been released")

// Chart is a live chart instance. Owners must Release it before acquiring
// the next one.
type Chart interface {
	ID() string
	Spec() chart.Spec
	Release() error
}

// Renderer acquires a chart instance for a spec.
type Renderer interface {
	Render(spec chart.Spec) (Chart, error)
}

// newChartID returns a time-ordered id, falling back to a random one.
func newChartID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
