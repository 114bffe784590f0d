package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
)

func km(v float64) *float64 { return &v }

func candidate(id string, category entities.Category, distance *float64, rating float64, reviews int) RankCandidate {
	return RankCandidate{
		Material: &entities.Material{
			ID:         id,
			Category:   category,
			Status:     entities.MaterialStatusAvailable,
			ProviderID: "prov-" + id,
		},
		DistanceKm: distance,
		Trust:      entities.ProviderTrust{ProviderID: "prov-" + id, AverageRating: rating, TotalReviews: reviews},
	}
}

func ids(scored []entities.ScoredMaterial) []string {
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.Material.ID
	}
	return out
}

var robotArmWeights = []entities.CategoryWeight{
	{Name: entities.CategoryElectronics, Weight: 0.7, Reason: "motors/sensors"},
	{Name: entities.CategoryMetals, Weight: 0.3, Reason: "frame"},
}

func TestRank_WeightedFormulaBeatsPlainDistance(t *testing.T) {
	svc := NewMaterialRankingService()
	candidates := []RankCandidate{
		candidate("a", entities.CategoryMetals, km(1), 5, 10),
		candidate("c", entities.CategoryElectronics, km(5), 4.9, 0),
		candidate("b", entities.CategoryElectronics, km(20), 4, 6),
		candidate("d", entities.CategoryMetals, km(30), 2, 3),
	}

	results := svc.Rank(candidates, robotArmWeights, RankingOptions{LocationAware: true, RadiusKm: 50})

	require.Len(t, results, 4)
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(results))
	assert.InDelta(t, 0.69, results[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.644, results[1].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.62, results[2].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.35, results[3].RelevanceScore, 1e-9)

	assert.InDelta(t, 0.35, results[0].ScoreBreakdown["category"], 1e-9)
	assert.InDelta(t, 0.18, results[0].ScoreBreakdown["distance"], 1e-9)
	assert.InDelta(t, 0.16, results[0].ScoreBreakdown["rating"], 1e-9)
}

func TestRank_CloserNeverScoresLower(t *testing.T) {
	svc := NewMaterialRankingService()
	const radius = 25.0

	prev := 2.0
	for d := 0.0; d <= radius; d += 0.5 {
		results := svc.Rank(
			[]RankCandidate{candidate("x", entities.CategoryElectronics, km(d), 3.5, 4)},
			robotArmWeights,
			RankingOptions{LocationAware: true, RadiusKm: radius},
		)
		require.Len(t, results, 1)
		assert.LessOrEqual(t, results[0].RelevanceScore, prev, "distance %v", d)
		prev = results[0].RelevanceScore
	}
}

func TestRank_TieBreaksOnDistance(t *testing.T) {
	svc := NewMaterialRankingService()
	// Same category and rating, distance beyond the radius floors the
	// distance share at zero for both.
	candidates := []RankCandidate{
		candidate("far", entities.CategoryMetals, km(80), 4, 2),
		candidate("near", entities.CategoryMetals, km(60), 4, 2),
	}

	results := svc.Rank(candidates, robotArmWeights, RankingOptions{LocationAware: true, RadiusKm: 50})
	assert.Equal(t, results[0].RelevanceScore, results[1].RelevanceScore)
	assert.Equal(t, []string{"near", "far"}, ids(results))
}

func TestRank_NoLocationCeiling(t *testing.T) {
	svc := NewMaterialRankingService()

	for _, w := range []float64{0, 0.25, 0.5, 1} {
		for _, rating := range []float64{0, 2.5, 5, 9} {
			weights := []entities.CategoryWeight{{Name: entities.CategoryPlastics, Weight: w, Reason: "r"}}
			results := svc.Rank(
				[]RankCandidate{candidate("p", entities.CategoryPlastics, nil, rating, 7)},
				weights,
				RankingOptions{},
			)
			require.Len(t, results, 1)
			assert.LessOrEqual(t, results[0].RelevanceScore, 0.7+1e-12)
			assert.Nil(t, results[0].DistanceKm)
			assert.NotContains(t, results[0].ScoreBreakdown, "distance")
		}
	}
}

func TestRank_NoLocationKeepsInputOrderOnTies(t *testing.T) {
	svc := NewMaterialRankingService()
	candidates := []RankCandidate{
		candidate("first", entities.CategoryMetals, nil, 3, 1),
		candidate("second", entities.CategoryMetals, nil, 3, 1),
		candidate("best", entities.CategoryElectronics, nil, 3, 1),
	}

	results := svc.Rank(candidates, robotArmWeights, RankingOptions{})
	assert.Equal(t, []string{"best", "first", "second"}, ids(results))
	assert.InDelta(t, 0.47, results[0].RelevanceScore, 1e-9)
}

func TestRank_UnreviewedProviderGetsNoTrust(t *testing.T) {
	svc := NewMaterialRankingService()
	results := svc.Rank(
		[]RankCandidate{candidate("u", entities.CategoryElectronics, nil, 4.5, 0)},
		robotArmWeights,
		RankingOptions{},
	)
	assert.InDelta(t, 0.35, results[0].RelevanceScore, 1e-9)
	assert.Equal(t, 0.0, results[0].ScoreBreakdown["rating"])
}

func TestRank_CategoryOutsideInferenceScoresZeroWeight(t *testing.T) {
	svc := NewMaterialRankingService()
	results := svc.Rank(
		[]RankCandidate{candidate("g", entities.CategoryGlassware, km(0), 5, 3)},
		robotArmWeights,
		RankingOptions{LocationAware: true, RadiusKm: 10},
	)
	assert.InDelta(t, 0.5, results[0].RelevanceScore, 1e-9)
	assert.Equal(t, 0.0, results[0].ScoreBreakdown["category"])
}

func TestRank_DoesNotMutateCandidates(t *testing.T) {
	svc := NewMaterialRankingService()
	c := candidate("m", entities.CategoryMetals, km(3), 4, 2)
	before := *c.Material

	results := svc.Rank([]RankCandidate{c}, robotArmWeights, RankingOptions{LocationAware: true, RadiusKm: 10})
	results[0].Material.Title = "changed"
	*results[0].DistanceKm = 99

	assert.Equal(t, before, *c.Material)
	assert.Equal(t, 3.0, *c.DistanceKm)
}

func TestRank_EmptyAndNil(t *testing.T) {
	svc := NewMaterialRankingService()
	assert.Empty(t, svc.Rank(nil, robotArmWeights, RankingOptions{}))
	assert.Empty(t, svc.Rank([]RankCandidate{{}}, robotArmWeights, RankingOptions{}))
}

func TestDefaultRankingWeights(t *testing.T) {
	w := NewMaterialRankingService().Weights()
	assert.Equal(t, RankingWeights{Category: 0.5, Distance: 0.3, Rating: 0.2}, w)
}
