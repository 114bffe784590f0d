package evaluation

import (
	"context"
	"sort"
	"time"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/application/services"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
)

// CategoryInferrer is the inference surface under evaluation.
type CategoryInferrer interface {
	Infer(ctx context.Context, query string) (*entities.CategoryInference, error)
}

// Runner runs evaluation across a set of golden queries.
type Runner struct {
	inferrer CategoryInferrer
}

func NewRunner(inferrer CategoryInferrer) *Runner {
	return &Runner{inferrer: inferrer}
}

// Run infers categories for every query. It stops early only when ctx is
// done; individual inference failures are recorded by kind.
func (r *Runner) Run(ctx context.Context, queries []GoldenQuery) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalQueries: len(queries),
		Failures:     make(map[string]int),
		ByDifficulty: make(map[string]*DifficultySummary),
		Results:      make([]EvalResult, 0, len(queries)),
	}

	for _, gq := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		inference, err := r.inferrer.Infer(ctx, gq.Query)
		result := EvalResult{
			QueryID:    gq.ID,
			Query:      gq.Query,
			Difficulty: gq.Difficulty,
			Latency:    time.Since(start),
		}

		if err != nil {
			result.ErrorKind = "error"
			if infErr, ok := services.AsInferenceError(err); ok {
				result.ErrorKind = string(infErr.Kind)
			}
			summary.Failures[result.ErrorKind]++
		} else if inference != nil {
			result.Inferred = rankedNames(inference.Categories)
			result.RecallAtK = RecallAtK(gq.ExpectedCategories, result.Inferred, TopK)
			result.MRRAtK = MRRAtK(gq.ExpectedCategories, result.Inferred, TopK)
			result.TopHit = TopHit(gq.PrimaryCategory, result.Inferred)
		}

		r.updateSummary(summary, result)
		summary.Results = append(summary.Results, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

// rankedNames orders categories by weight, heaviest first.
func rankedNames(categories []entities.CategoryWeight) []string {
	sorted := make([]entities.CategoryWeight, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	names := make([]string, len(sorted))
	for i, c := range sorted {
		names[i] = string(c.Name)
	}
	return names
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.AvgRecallAtK += res.RecallAtK
	s.AvgMRRAtK += res.MRRAtK
	s.AvgLatency += res.Latency
	if res.TopHit {
		s.TopHitRate++
	}

	if _, ok := s.ByDifficulty[res.Difficulty]; !ok {
		s.ByDifficulty[res.Difficulty] = &DifficultySummary{}
	}
	ds := s.ByDifficulty[res.Difficulty]
	ds.Count++
	ds.AvgRecallAtK += res.RecallAtK
	if res.TopHit {
		ds.TopHitRate++
	}
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalQueries > 0 {
		n := float64(s.TotalQueries)
		s.AvgRecallAtK /= n
		s.AvgMRRAtK /= n
		s.TopHitRate /= n
		s.AvgLatency /= time.Duration(s.TotalQueries)
	}

	for _, ds := range s.ByDifficulty {
		if ds.Count > 0 {
			n := float64(ds.Count)
			ds.AvgRecallAtK /= n
			ds.TopHitRate /= n
		}
	}
}
