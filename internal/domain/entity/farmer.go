// Package entity contains the core business objects of the project.
package entity

import (
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// Categorical vocabularies for farmer attributes. The ordinal tables are
// used only for feature-vector derivation; similarity scoring compares the
// raw (lowercased) values directly.
var (
	soilTypeOrdinals = map[string]float64{
		"loamy": 0, "clay": 1, "sandy": 2, "black": 3, "red": 4, "alluvial": 5,
	}
	cropTypeOrdinals = map[string]float64{
		"rice": 0, "wheat": 1, "maize": 2, "cotton": 3, "sugarcane": 4,
		"potato": 5, "tomato": 6, "onion": 7, "soybean": 8, "groundnut": 9,
		"mango": 10, "banana": 11, "vegetables": 12, "pulses": 13, "other": 14,
	}
	waterSourceOrdinals = map[string]float64{
		"rainfall": 0, "irrigation": 1, "borewell": 2, "canal": 3, "river": 4, "both": 5,
	}

	// grainCrops is the crop family that earns partial similarity credit
	// when two farmers grow different members of it.
	grainCrops = map[string]struct{}{
		"rice": {}, "wheat": {}, "maize": {},
	}
)

// otherCropOrdinal is the ordinal assigned to crops outside the vocabulary.
const otherCropOrdinal = 14

// DiseaseReportEntry is one entry in a farmer's append-only disease log.
type DiseaseReportEntry struct {
	Disease      string    `json:"disease"`       // Name of the disease or pest.
	Severity     float64   `json:"severity"`      // Reported severity in [0, 1].
	CropAffected string    `json:"crop_affected"` // Crop that was affected.
	DetectedAt   time.Time `json:"detected_at"`   // When the report was made.
}

// FarmerNode represents a farmer as a node in the alert network.
type FarmerNode struct {
	FarmerID       string               `json:"farmer_id"`       // Unique, immutable identifier.
	Name           string               `json:"name,omitempty"`  // Display name (optional).
	Phone          string               `json:"phone,omitempty"` // Contact phone (optional).
	Latitude       float64              `json:"latitude"`        // Geographic latitude in [-90, 90].
	Longitude      float64              `json:"longitude"`       // Geographic longitude in [-180, 180].
	SoilType       string               `json:"soil_type"`       // Lowercased soil type.
	SoilPH         float64              `json:"soil_ph"`         // Soil pH in [0, 14].
	CurrentCrop    string               `json:"current_crop"`    // Lowercased current crop.
	WaterSource    string               `json:"water_source"`    // Lowercased water source.
	FarmSizeAcres  float64              `json:"farm_size_acres"` // Farm size in acres, >= 0.
	DiseaseReports []DiseaseReportEntry `json:"disease_reports"` // Append-only, insertion ordered.
	CreatedAt      time.Time            `json:"created_at"`      // Registration time.
	LastUpdated    time.Time            `json:"last_updated"`    // Refreshed on every mutation.
}

// Point returns the farmer's current coordinate as an orb point (lon, lat).
func (f *FarmerNode) Point() orb.Point {
	return orb.Point{f.Longitude, f.Latitude}
}

// AddDiseaseReport appends a report entry to the farmer's disease log and
// refreshes the last-updated timestamp. The log is never truncated. Disease
// and crop names are stored lowercased so log entries and histograms stay
// case-insensitive.
func (f *FarmerNode) AddDiseaseReport(disease string, severity float64, cropAffected string, detectedAt time.Time) {
	if cropAffected == "" {
		cropAffected = f.CurrentCrop
	}
	f.DiseaseReports = append(f.DiseaseReports, DiseaseReportEntry{
		Disease:      strings.ToLower(disease),
		Severity:     severity,
		CropAffected: strings.ToLower(cropAffected),
		DetectedAt:   detectedAt,
	})
	f.LastUpdated = detectedAt
}

// FeatureVector derives the 8-dimensional numeric representation of the
// farmer's current attributes. It is a pure function of the node: calling it
// twice without mutating the node yields identical vectors.
//
// Unknown categorical values map to a fixed fallback ordinal (14 for crops,
// 0 for soil and water) instead of failing. The report count dimension is a
// learned-embedding signal only; the rule scorer does not read it.
func (f *FarmerNode) FeatureVector() [8]float64 {
	return [8]float64{
		f.Latitude / 90.0,
		f.Longitude / 180.0,
		lookupOrdinal(soilTypeOrdinals, f.SoilType, 0) / 5.0,
		f.SoilPH / 14.0,
		lookupOrdinal(cropTypeOrdinals, f.CurrentCrop, otherCropOrdinal) / 14.0,
		lookupOrdinal(waterSourceOrdinals, f.WaterSource, 0) / 5.0,
		min(f.FarmSizeAcres, 100) / 100.0,
		min(float64(len(f.DiseaseReports)), 10) / 10.0,
	}
}

func lookupOrdinal(table map[string]float64, value string, fallback float64) float64 {
	if ordinal, ok := table[value]; ok {
		return ordinal
	}

	return fallback
}

// IsGrainCrop reports whether the crop belongs to the grain family.
func IsGrainCrop(crop string) bool {
	_, ok := grainCrops[crop]

	return ok
}
