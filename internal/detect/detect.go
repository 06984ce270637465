// Package detect defines the object-detection collaborator contract. The
// model itself is a black box: image bytes in, labeled bounding boxes out.
package detect

import "context"

// BoundingBox locates one detection within the source image.
type BoundingBox struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

// Detection is one classified region emitted by the detector for one image.
type Detection struct {
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"box"`
}

// Detector runs inference on an image. An empty result is a valid outcome
// (no sellable pieces in frame), not an error.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]Detection, error)
}
