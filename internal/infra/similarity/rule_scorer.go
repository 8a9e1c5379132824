// Package similarity contains the rule-based farmer similarity scorer.
package similarity

import (
	"agrinet/internal/domain/entity"
	"agrinet/internal/domain/service"
	"agrinet/internal/infra/geo"
)

// Factor weights. They sum to 1.0, so the total score is always in [0, 1].
const (
	cropMatchWeight   = 0.40
	grainFamilyWeight = 0.20
	soilMatchWeight   = 0.25
	phCloseWeight     = 0.10
	phNearWeight      = 0.05
	waterMatchWeight  = 0.05
)

// Distance bands, exclusive upper bounds in km, checked in ascending order.
var distanceBands = []struct {
	upperKm float64
	weight  float64
}{
	{10, 0.20},
	{25, 0.15},
	{50, 0.10},
	{100, 0.05},
}

type ruleScorer struct{}

// NewRuleScorer creates the deterministic rule-based similarity scorer: a
// weighted sum over crop, soil type, geographic proximity, pH closeness and
// water source, each factor capped at its weight.
func NewRuleScorer() service.SimilarityScorer {
	return &ruleScorer{}
}

// Score computes the similarity between two farmers. The comparison only
// reads attribute equality and haversine distance, so it is symmetric by
// construction.
func (s *ruleScorer) Score(a, b *entity.FarmerNode) float64 {
	score := 0.0

	// Crop: full credit for an exact match, partial credit when both grow
	// different grains.
	switch {
	case a.CurrentCrop == b.CurrentCrop:
		score += cropMatchWeight
	case entity.IsGrainCrop(a.CurrentCrop) && entity.IsGrainCrop(b.CurrentCrop):
		score += grainFamilyWeight
	}

	if a.SoilType == b.SoilType {
		score += soilMatchWeight
	}

	distance := geo.DistanceKm(a.Point(), b.Point())
	for _, band := range distanceBands {
		if distance < band.upperKm {
			score += band.weight

			break
		}
	}

	phDiff := a.SoilPH - b.SoilPH
	if phDiff < 0 {
		phDiff = -phDiff
	}
	switch {
	case phDiff < 0.5:
		score += phCloseWeight
	case phDiff < 1.0:
		score += phNearWeight
	}

	if a.WaterSource == b.WaterSource {
		score += waterMatchWeight
	}

	return score
}
