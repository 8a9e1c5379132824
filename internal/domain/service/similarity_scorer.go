// Package service defines interfaces for domain services provided by the
// infrastructure layer.
package service

import "agrinet/internal/domain/entity"

// SimilarityScorer computes a pairwise similarity score in [0, 1] between
// two farmer nodes. The rule-based scorer is the authoritative
// implementation; a learned-embedding scorer can be swapped in behind the
// same interface.
type SimilarityScorer interface {
	// Score returns the similarity between a and b. Implementations must be
	// symmetric: Score(a, b) == Score(b, a).
	Score(a, b *entity.FarmerNode) float64
}
