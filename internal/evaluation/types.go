// Package evaluation scores category inference against a labeled query set.
package evaluation

import "time"

// TopK is how many inferred categories count as retrieved.
const TopK = 3

// GoldenQuery is a labeled project description with the categories a
// reviewer expects the model to name.
type GoldenQuery struct {
	ID                 string   `json:"id"`
	Query              string   `json:"query"`
	ExpectedCategories []string `json:"expected_categories"`
	PrimaryCategory    string   `json:"primary_category"`
	Difficulty         string   `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single query.
type EvalResult struct {
	QueryID    string        `json:"query_id"`
	Query      string        `json:"query"`
	Difficulty string        `json:"difficulty"`
	RecallAtK  float64       `json:"recall_at_k"`
	MRRAtK     float64       `json:"mrr_at_k"`
	TopHit     bool          `json:"top_hit"`
	Inferred   []string      `json:"inferred"`
	ErrorKind  string        `json:"error_kind,omitempty"`
	Latency    time.Duration `json:"latency"`
}

// EvalSummary holds aggregate metrics across all golden queries. Failed
// inferences count as zero for every score.
type EvalSummary struct {
	TotalQueries int                           `json:"total_queries"`
	Failures     map[string]int                `json:"failures"`
	AvgRecallAtK float64                       `json:"avg_recall_at_k"`
	AvgMRRAtK    float64                       `json:"avg_mrr_at_k"`
	TopHitRate   float64                       `json:"top_hit_rate"`
	AvgLatency   time.Duration                 `json:"avg_latency"`
	ByDifficulty map[string]*DifficultySummary `json:"by_difficulty"`
	Results      []EvalResult                  `json:"results"`
}

// DifficultySummary holds metrics grouped by difficulty.
type DifficultySummary struct {
	Count        int     `json:"count"`
	AvgRecallAtK float64 `json:"avg_recall_at_k"`
	TopHitRate   float64 `json:"top_hit_rate"`
}
