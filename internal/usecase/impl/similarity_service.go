package impl

import (
	"context"
	"sort"

	domainerrors "agrinet/internal/domain/errors"
	"agrinet/internal/domain/repository"
	"agrinet/internal/domain/service"
	"agrinet/internal/errors"
	"agrinet/internal/infra/geo"
	"agrinet/internal/usecase"
)

type similarityService struct {
	farmerRepo repository.FarmerRepository
	scorer     service.SimilarityScorer
}

// NewSimilarityService creates the similarity engine service.
func NewSimilarityService(
	farmerRepo repository.FarmerRepository,
	scorer service.SimilarityScorer,
) usecase.SimilarityUsecase {
	return &similarityService{
		farmerRepo: farmerRepo,
		scorer:     scorer,
	}
}

// FindSimilar scores the source farmer against every other registered node.
// An unknown source yields an empty result rather than an error so batch
// callers need no special casing.
func (s *similarityService) FindSimilar(ctx context.Context, sourceID string, topK int, minSimilarity float64) ([]usecase.SimilarFarmer, error) {
	source, err := s.farmerRepo.FindFarmerByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, repository.ErrFarmerNotFound) {
			return []usecase.SimilarFarmer{}, nil
		}

		return nil, errors.Wrap(err, "failed to load source farmer")
	}

	farmers, err := s.farmerRepo.ListFarmers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list farmers")
	}

	matches := make([]usecase.SimilarFarmer, 0, len(farmers))
	for _, candidate := range farmers {
		if candidate.FarmerID == sourceID {
			continue
		}

		similarity := s.scorer.Score(source, candidate)
		if similarity < minSimilarity {
			continue
		}

		matches = append(matches, usecase.SimilarFarmer{
			Farmer:     candidate,
			Similarity: similarity,
			DistanceKm: geo.DistanceKm(source.Point(), candidate.Point()),
		})
	}

	// Deterministic order: similarity desc, distance asc, farmer ID asc.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}

		return matches[i].Farmer.FarmerID < matches[j].Farmer.FarmerID
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

// Score computes the pairwise similarity between two registered farmers.
func (s *similarityService) Score(ctx context.Context, farmerID, otherID string) (float64, error) {
	first, err := s.farmerRepo.FindFarmerByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, repository.ErrFarmerNotFound) {
			return 0, domainerrors.ErrFarmerNotFound
		}

		return 0, errors.Wrap(err, "failed to load farmer")
	}

	second, err := s.farmerRepo.FindFarmerByID(ctx, otherID)
	if err != nil {
		if errors.Is(err, repository.ErrFarmerNotFound) {
			return 0, domainerrors.ErrFarmerNotFound
		}

		return 0, errors.Wrap(err, "failed to load farmer")
	}

	return s.scorer.Score(first, second), nil
}
