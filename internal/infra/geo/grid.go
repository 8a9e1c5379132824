package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// kmPerDegreeLat is the approximate north-south span of one degree of
// latitude; used only for cell sizing, never for reported distances.
const kmPerDegreeLat = 111.0

// GridIndex is a simple grid-based spatial index over identified points.
// It serves as a bounding-box pre-filter for radius queries; exact
// distances are always confirmed with HaversineKm.
type GridIndex struct {
	cellSizeDeg float64
	cells       map[gridKey][]gridEntry
	size        int
}

type gridKey struct {
	latCell int
	lonCell int
}

type gridEntry struct {
	id    string
	point orb.Point
}

// NewGridIndex creates a grid index with the given cell size in kilometers.
// Smaller cells mean more buckets but tighter pre-filtering.
func NewGridIndex(cellSizeKm float64) *GridIndex {
	if cellSizeKm <= 0 {
		cellSizeKm = 5.0
	}

	return &GridIndex{
		cellSizeDeg: cellSizeKm / kmPerDegreeLat,
		cells:       make(map[gridKey][]gridEntry),
	}
}

// Insert adds an identified point to the index.
func (g *GridIndex) Insert(id string, point orb.Point) {
	key := g.keyFor(point)
	g.cells[key] = append(g.cells[key], gridEntry{id: id, point: point})
	g.size++
}

// Size returns the number of indexed points.
func (g *GridIndex) Size() int {
	return g.size
}

// Match is one radius-query result.
type Match struct {
	ID         string
	Point      orb.Point
	DistanceKm float64
}

// Within returns every indexed point within radiusKm of center. Results are
// unordered; callers sort as needed.
func (g *GridIndex) Within(center orb.Point, radiusKm float64) []Match {
	if g.size == 0 || radiusKm <= 0 {
		return nil
	}

	latDelta := radiusKm / kmPerDegreeLat
	// Longitude degrees shrink by cos(lat); widen the scan band accordingly
	// and clamp near the poles where the correction blows up.
	cosLat := math.Cos(center.Lat() * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonDelta := radiusKm / (kmPerDegreeLat * cosLat)

	minKey := g.keyForLatLon(center.Lat()-latDelta, center.Lon()-lonDelta)
	maxKey := g.keyForLatLon(center.Lat()+latDelta, center.Lon()+lonDelta)

	var matches []Match
	for latCell := minKey.latCell; latCell <= maxKey.latCell; latCell++ {
		for lonCell := minKey.lonCell; lonCell <= maxKey.lonCell; lonCell++ {
			for _, entry := range g.cells[gridKey{latCell: latCell, lonCell: lonCell}] {
				distance := DistanceKm(center, entry.point)
				if distance <= radiusKm {
					matches = append(matches, Match{
						ID:         entry.id,
						Point:      entry.point,
						DistanceKm: distance,
					})
				}
			}
		}
	}

	return matches
}

func (g *GridIndex) keyFor(point orb.Point) gridKey {
	return g.keyForLatLon(point.Lat(), point.Lon())
}

func (g *GridIndex) keyForLatLon(lat, lon float64) gridKey {
	return gridKey{
		latCell: int(math.Floor(lat / g.cellSizeDeg)),
		lonCell: int(math.Floor(lon / g.cellSizeDeg)),
	}
}
