package entities

import "encoding/json"

// CategoryWeight is one inferred category with its share of relevance.
// Reason is kept for transparency only and never affects ranking.
type CategoryWeight struct {
	Name   Category `json:"name"`
	Weight float64  `json:"weight"`
	Reason string   `json:"reason"`
}

// CategoryInference is the validated, normalized result of inferring
// categories for a free-text query. Raw is the model payload as parsed.
type CategoryInference struct {
	Query      string           `json:"query"`
	Categories []CategoryWeight `json:"categories"`
	Model      string           `json:"model,omitempty"`
	Raw        json.RawMessage  `json:"raw,omitempty"`
}

// WeightFor returns the weight assigned to c, or 0 when c was not inferred.
func (i *CategoryInference) WeightFor(c Category) float64 {
	if i == nil {
		return 0
	}
	for _, cw := range i.Categories {
		if cw.Name == c {
			return cw.Weight
		}
	}
	return 0
}

// CategoryNames lists the inferred categories in order.
func (i *CategoryInference) CategoryNames() []Category {
	if i == nil {
		return nil
	}
	names := make([]Category, 0, len(i.Categories))
	for _, cw := range i.Categories {
		names = append(names, cw.Name)
	}
	return names
}
