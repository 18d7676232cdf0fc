package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Melbourne CBD
const (
	cbdLng = 144.9631
	cbdLat = -37.8136
)

func TestKmToRadians(t *testing.T) {
	assert.InDelta(t, 5/6378.1, KmToRadians(5), 1e-12)
	assert.Zero(t, KmToRadians(0))
}

func TestDistanceKm(t *testing.T) {
	assert.Zero(t, DistanceKm(cbdLng, cbdLat, cbdLng, cbdLat))

	// CBD to St Kilda is about 6 km
	d := DistanceKm(cbdLng, cbdLat, 144.9780, -37.8676)
	assert.InDelta(t, 6.1, d, 0.3)

	// Melbourne to Sydney
	d = DistanceKm(cbdLng, cbdLat, 151.2093, -33.8688)
	assert.InDelta(t, 714, d, 10)
}

func TestWithin(t *testing.T) {
	tests := []struct {
		name     string
		lng, lat float64
		radius   float64
		want     bool
	}{
		{"centre", cbdLng, cbdLat, 5, true},
		{"fitzroy", 144.9780, -37.7984, 5, true},
		{"st kilda outside 5km", 144.9780, -37.8676, 5, false},
		{"st kilda inside 10km", 144.9780, -37.8676, 10, true},
		{"sydney", 151.2093, -33.8688, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Within(cbdLng, cbdLat, tt.radius, tt.lng, tt.lat))
		})
	}
}

func TestBoundingBox_ContainsCap(t *testing.T) {
	box := BoundingBox(cbdLng, cbdLat, 5)

	assert.False(t, box.CrossesAntimeridian())
	assert.Less(t, box.MinLat, cbdLat)
	assert.Greater(t, box.MaxLat, cbdLat)

	// points due north/east at exactly ~5km sit inside the box
	assert.LessOrEqual(t, box.MinLng, 144.9780)
	assert.GreaterOrEqual(t, box.MaxLng, 144.9780)
	assert.GreaterOrEqual(t, box.MaxLat, -37.7984)
}

func TestBoundingBox_Antimeridian(t *testing.T) {
	box := BoundingBox(179.99, 0, 10)

	assert.True(t, box.CrossesAntimeridian())
	assert.Greater(t, box.MinLng, 179.0)
	assert.Less(t, box.MaxLng, -179.0)
}

func TestBoundingBox_Pole(t *testing.T) {
	box := BoundingBox(0, 89.99, 50)

	assert.Equal(t, 90.0, box.MaxLat)
	assert.Equal(t, -180.0, box.MinLng)
	assert.Equal(t, 180.0, box.MaxLng)
}

func TestWithin_AcrossAntimeridian(t *testing.T) {
	// about 2.2 km apart on the equator
	assert.True(t, Within(179.99, 0, 5, -179.99, 0))
	assert.True(t, Within(-179.99, 0, 5, 179.99, 0))
	assert.False(t, Within(179.99, 0, 1, -179.99, 0))

	box := BoundingBox(179.99, 0, 5)
	assert.True(t, -179.99 <= box.MaxLng || -179.99 >= box.MinLng)
}

func TestBoundingBox_SouthPole(t *testing.T) {
	box := BoundingBox(12, -89.95, 20)

	assert.Equal(t, -90.0, box.MinLat)
	assert.False(t, box.CrossesAntimeridian())
	assert.Equal(t, -180.0, box.MinLng)
	assert.Equal(t, 180.0, box.MaxLng)
}
