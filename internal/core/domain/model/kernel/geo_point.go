package kernel

import (
	"errors"
	"fmt"

	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

const (
	// LatitudeMin and LatitudeMax bound a valid latitude in degrees.
	LatitudeMin = -90.0
	LatitudeMax = 90.0

	// LongitudeMin and LongitudeMax bound a valid longitude in degrees.
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when a GeoPoint did not come from NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is a validated latitude/longitude pair. Utility orders carry one per
// sub-order as the pickup origin.
//
// Example:
//
//	origin, err := kernel.NewGeoPoint(15.3694, 44.1910)
//	if err != nil {
//	    // coordinates out of range
//	}
type GeoPoint struct { //nolint:recvcheck // setters use pointer receivers during construction
	lat   float64
	lng   float64
	label string
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint, rejecting coordinates outside the valid ranges.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	return NewLabeledGeoPoint(lat, lng, "")
}

// NewLabeledGeoPoint creates a GeoPoint carrying a human readable label such as a store name.
func NewLabeledGeoPoint(lat, lng float64, label string) (GeoPoint, error) {
	p := GeoPoint{label: label, guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks that the point was built through a constructor.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in degrees.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// Label returns the optional label.
func (p GeoPoint) Label() string {
	return p.label
}

func (p GeoPoint) String() string {
	if p.label != "" {
		return fmt.Sprintf("%s(%.6f,%.6f)", p.label, p.lat, p.lng)
	}
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

// IsEqual compares coordinates and label. Both points must be valid.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return p == other, nil
}

func (p *GeoPoint) setLat(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}
	p.lat = lat
	return nil
}

func (p *GeoPoint) setLng(lng float64) error {
	if lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}
	p.lng = lng
	return nil
}
