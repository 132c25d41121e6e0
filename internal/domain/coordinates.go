package domain

// Coordinates is an ordered (longitude, latitude) pair.
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// BoundingBox is an axis-aligned lon/lat rectangle.
type BoundingBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// BayArea is the regional bounding box enforced at the validation boundary.
// The fare engine itself never checks it.
var BayArea = BoundingBox{
	MinLon: -123.2,
	MinLat: 36.9,
	MaxLon: -121.2,
	MaxLat: 38.6,
}

// Valid reports whether the pair is a plausible WGS-84 coordinate.
func (c Coordinates) Valid() bool {
	return c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90
}

// InBox reports whether the coordinate falls inside the box (inclusive).
func (c Coordinates) InBox(b BoundingBox) bool {
	return c.Lon >= b.MinLon && c.Lon <= b.MaxLon && c.Lat >= b.MinLat && c.Lat <= b.MaxLat
}

// InServiceRegion reports whether the coordinate is inside the supported region.
func (c Coordinates) InServiceRegion() bool {
	return c.Valid() && c.InBox(BayArea)
}
