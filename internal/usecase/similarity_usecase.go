package usecase

import (
	"context"

	"agrinet/internal/domain/entity"
)

// SimilarFarmer is one match from a similarity query.
type SimilarFarmer struct {
	Farmer     *entity.FarmerNode `json:"farmer"`
	Similarity float64            `json:"similarity"`
	DistanceKm float64            `json:"distance_km"`
}

// SimilarityUsecase defines the similarity engine use cases.
type SimilarityUsecase interface {
	// FindSimilar retrieves up to topK farmers whose similarity to the
	// source is at least minSimilarity, ordered by similarity descending,
	// then distance ascending, then farmer ID ascending. The source itself
	// is excluded. An unknown source yields an empty slice, not an error.
	FindSimilar(ctx context.Context, sourceID string, topK int, minSimilarity float64) ([]SimilarFarmer, error)

	// Score computes the pairwise similarity between two registered farmers.
	Score(ctx context.Context, farmerID, otherID string) (float64, error)
}
