package entities

// MaxProviderRating is the top of the review scale.
const MaxProviderRating = 5.0

// ProviderTrust is the read projection of a provider used for ranking.
// A provider without reviews has AverageRating 0.
type ProviderTrust struct {
	ProviderID    string  `json:"providerId" db:"id"`
	AverageRating float64 `json:"averageRating" db:"average_rating"`
	TotalReviews  int     `json:"totalReviews" db:"total_reviews"`
}

// Clamp forces the rating into [0, MaxProviderRating] and the review count
// to be non-negative. An unreviewed provider gets no rating.
func (p ProviderTrust) Clamp() ProviderTrust {
	if p.AverageRating < 0 {
		p.AverageRating = 0
	}
	if p.AverageRating > MaxProviderRating {
		p.AverageRating = MaxProviderRating
	}
	if p.TotalReviews < 0 {
		p.TotalReviews = 0
	}
	if p.TotalReviews == 0 {
		p.AverageRating = 0
	}
	return p
}
