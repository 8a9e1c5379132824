package entity

import (
	"time"

	"github.com/paulmach/orb"
)

// MaxLocationHistoryPerFarmer caps each farmer's location history; the
// oldest point is evicted when a new one is appended past the cap.
const MaxLocationHistoryPerFarmer = 10

// LocationPoint is a single recorded position.
type LocationPoint struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	AccuracyM  *float64  `json:"accuracy_m,omitempty"` // GPS accuracy in meters, when reported.
	RecordedAt time.Time `json:"recorded_at"`
}

// Point returns the position as an orb point (lon, lat).
func (p LocationPoint) Point() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// LocationRecord is a farmer's current position plus a capped history of
// recent pings. This store is independent of the registry node's own
// lat/lon fields; the registry is authoritative for similarity, this record
// for history and nearby queries.
type LocationRecord struct {
	FarmerID  string          `json:"farmer_id"`
	Current   LocationPoint   `json:"current"`
	History   []LocationPoint `json:"history"` // Insertion ordered, at most MaxLocationHistoryPerFarmer.
	UpdatedAt time.Time       `json:"updated_at"`
}

// NearbyFarmer is one result of a radius query, ordered by ascending
// distance from the query point.
type NearbyFarmer struct {
	FarmerID   string  `json:"farmer_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}
