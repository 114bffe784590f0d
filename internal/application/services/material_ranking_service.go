package services

import (
	"math"
	"sort"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
)

// RankingWeights are the shares of each signal in the relevance score.
type RankingWeights struct {
	Category float64
	Distance float64
	Rating   float64
}

// DefaultRankingWeights returns 0.5 category, 0.3 distance, 0.2 rating.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		Category: 0.5,
		Distance: 0.3,
		Rating:   0.2,
	}
}

// RankCandidate is a material with the inputs ranking needs.
type RankCandidate struct {
	Material   *entities.Material
	DistanceKm *float64
	Trust      entities.ProviderTrust
}

// RankingOptions selects the scoring mode. When LocationAware is false the
// distance share is dropped, not redistributed, so scores top out at
// Category+Rating.
type RankingOptions struct {
	LocationAware bool
	RadiusKm      float64
}

// MaterialRankingService scores and orders search candidates
type MaterialRankingService struct {
	weights RankingWeights
}

// NewMaterialRankingService creates a ranking service with default weights
func NewMaterialRankingService() *MaterialRankingService {
	return NewMaterialRankingServiceWithWeights(DefaultRankingWeights())
}

// NewMaterialRankingServiceWithWeights creates a ranking service with custom weights
func NewMaterialRankingServiceWithWeights(weights RankingWeights) *MaterialRankingService {
	return &MaterialRankingService{weights: weights}
}

// Weights returns the weights in use.
func (s *MaterialRankingService) Weights() RankingWeights {
	return s.weights
}

// Rank scores every candidate and sorts by score descending. In location
// mode ties go to the closer material; otherwise input order is kept.
func (s *MaterialRankingService) Rank(candidates []RankCandidate, categories []entities.CategoryWeight, opts RankingOptions) []entities.ScoredMaterial {
	if len(candidates) == 0 {
		return []entities.ScoredMaterial{}
	}

	weightOf := make(map[entities.Category]float64, len(categories))
	for _, cw := range categories {
		weightOf[cw.Name] += cw.Weight
	}

	scored := make([]entities.ScoredMaterial, 0, len(candidates))
	for _, c := range candidates {
		if c.Material == nil {
			continue
		}
		score, breakdown := s.score(c, weightOf[c.Material.Category], opts)

		sm := entities.ScoredMaterial{
			Material:       *c.Material,
			RelevanceScore: score,
			ScoreBreakdown: breakdown,
		}
		if c.DistanceKm != nil {
			d := *c.DistanceKm
			sm.DistanceKm = &d
		}
		scored = append(scored, sm)
	}

	if opts.LocationAware {
		sort.SliceStable(scored, func(i, j int) bool {
			if scored[i].RelevanceScore != scored[j].RelevanceScore {
				return scored[i].RelevanceScore > scored[j].RelevanceScore
			}
			return distanceOrInf(scored[i].DistanceKm) < distanceOrInf(scored[j].DistanceKm)
		})
	} else {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].RelevanceScore > scored[j].RelevanceScore
		})
	}

	return scored
}

func (s *MaterialRankingService) score(c RankCandidate, categoryWeight float64, opts RankingOptions) (float64, map[string]float64) {
	trust := c.Trust.Clamp()
	ratingScore := trust.AverageRating / entities.MaxProviderRating

	categoryPart := s.weights.Category * categoryWeight
	ratingPart := s.weights.Rating * ratingScore
	breakdown := map[string]float64{
		"category": categoryPart,
		"rating":   ratingPart,
	}

	if !opts.LocationAware {
		return categoryPart + ratingPart, breakdown
	}

	distancePart := s.weights.Distance * distanceScore(c.DistanceKm, opts.RadiusKm)
	breakdown["distance"] = distancePart
	return categoryPart + distancePart + ratingPart, breakdown
}

// distanceScore is 1 at the center falling linearly to 0 at the radius.
func distanceScore(distanceKm *float64, radiusKm float64) float64 {
	if distanceKm == nil || radiusKm <= 0 {
		return 0
	}
	return math.Max(0, 1-*distanceKm/radiusKm)
}

func distanceOrInf(d *float64) float64 {
	if d == nil {
		return math.Inf(1)
	}
	return *d
}
