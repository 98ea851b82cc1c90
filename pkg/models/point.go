package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Point is a land-shape vertex. It is accepted as [x, y], [x, y, z], {x, y} or
// {x, y, z} and written back in the form it arrived in.
type Point struct {
	X     float64
	Y     float64
	Z     *float64
	Keyed bool
}

type LandShape []Point

type keyedPoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z,omitempty"`
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func NewPoint3(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: &z}
}

// Coordinates returns the point as [x, y] or [x, y, z].
func (p Point) Coordinates() []float64 {
	if p.Z != nil {
		return []float64{p.X, p.Y, *p.Z}
	}
	return []float64{p.X, p.Y}
}

func (p *Point) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("point: empty value")
	}

	switch data[0] {
	case '[':
		var coords []float64
		if err := json.Unmarshal(data, &coords); err != nil {
			return fmt.Errorf("point: %w", err)
		}
		point, err := PointFromCoordinates(coords)
		if err != nil {
			return err
		}
		*p = point
		return nil
	case '{':
		var kp keyedPoint
		if err := json.Unmarshal(data, &kp); err != nil {
			return fmt.Errorf("point: %w", err)
		}
		if kp.X == nil || kp.Y == nil {
			return fmt.Errorf("point: x and y are required")
		}
		*p = Point{X: *kp.X, Y: *kp.Y, Z: kp.Z, Keyed: true}
		return nil
	default:
		return fmt.Errorf("point: expected an array or an object, got %s", string(data))
	}
}

func (p Point) MarshalJSON() ([]byte, error) {
	if p.Keyed {
		return json.Marshal(keyedPoint{X: &p.X, Y: &p.Y, Z: p.Z})
	}
	return json.Marshal(p.Coordinates())
}

// PointFromCoordinates builds an array-form point from two or three coordinates.
func PointFromCoordinates(coords []float64) (Point, error) {
	switch len(coords) {
	case 2:
		return NewPoint(coords[0], coords[1]), nil
	case 3:
		return NewPoint3(coords[0], coords[1], coords[2]), nil
	default:
		return Point{}, fmt.Errorf("point: expected 2 or 3 coordinates, got %d", len(coords))
	}
}
