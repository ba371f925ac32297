package section

import (
	"encoding/json"
	"fmt"
	"os"
)

// Shape is a girder cross-section defined by the vertices of its outline.
// The shape is defined in a local coordinate system where:
// - Y-axis points upward (top flange at the largest Y)
// - X-axis points to the right
// - Origin can be at any convenient location
type Shape struct {
	Name string `json:"name,omitempty"`

	// Outline vertices in m, counter-clockwise. The outline is assumed to be
	// a simple polygon (no holes).
	Vertices []Point `json:"vertices"`
}

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"` // m
	Y float64 `json:"y"` // m
}

// Properties holds calculated gross section properties
type Properties struct {
	// Overall dimensions
	Width  float64 // Maximum width (m)
	Height float64 // Total height (m)
	Area   float64 // Gross area (m²)

	// Centroid location
	CentroidX float64
	CentroidY float64

	// Bounding box
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64

	// Centroidal moments of inertia (m⁴)
	Ix float64 // about the horizontal axis (strong axis for girders)
	Iy float64 // about the vertical axis (lateral bending)

	// Centroid to extreme fibers (m)
	Ytop    float64
	Ybottom float64

	// Widths just inside the top and bottom fibers (m)
	TopWidth    float64
	BottomWidth float64
}

// Rectangle returns a solid rectangular shape of width b and height h with
// its bottom-left corner at the origin.
func Rectangle(b, h float64) Shape {
	return Shape{
		Name: fmt.Sprintf("%.3gx%.3g rectangle", b, h),
		Vertices: []Point{
			{X: 0, Y: 0},
			{X: b, Y: 0},
			{X: b, Y: h},
			{X: 0, Y: h},
		},
	}
}

// IGirder returns a symmetric I-shaped girder outline.
// bt/tt are the top flange width/thickness, bb/tb the bottom flange, tw the
// web thickness and h the overall height.
func IGirder(bt, tt, bb, tb, tw, h float64) Shape {
	return Shape{
		Name: fmt.Sprintf("I-girder h=%.3g", h),
		Vertices: []Point{
			{X: -bb / 2, Y: 0},
			{X: bb / 2, Y: 0},
			{X: bb / 2, Y: tb},
			{X: tw / 2, Y: tb},
			{X: tw / 2, Y: h - tt},
			{X: bt / 2, Y: h - tt},
			{X: bt / 2, Y: h},
			{X: -bt / 2, Y: h},
			{X: -bt / 2, Y: h - tt},
			{X: -tw / 2, Y: h - tt},
			{X: -tw / 2, Y: tb},
			{X: -bb / 2, Y: tb},
		},
	}
}

// LoadFromFile loads a shape definition from a JSON file
func LoadFromFile(filepath string) (*Shape, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var shape Shape
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, err
	}

	if err := shape.Validate(); err != nil {
		return nil, err
	}

	return &shape, nil
}

// Validate checks if the shape definition is valid
func (s *Shape) Validate() error {
	if len(s.Vertices) < 3 {
		return &ValidationError{"shape must have at least 3 vertices"}
	}
	area, _, _ := s.calculateAreaAndCentroid()
	if area <= 0 {
		return &ValidationError{msg: fmt.Sprintf("shape %q encloses no area", s.Name)}
	}
	return nil
}

// ValidationError represents a shape validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
