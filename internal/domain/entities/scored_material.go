package entities

// ScoredMaterial is a search hit. It carries a copy of the material and is
// never persisted; DistanceKm is nil when the search had no location.
type ScoredMaterial struct {
	Material       Material
	DistanceKm     *float64
	RelevanceScore float64
	ScoreBreakdown map[string]float64
}
