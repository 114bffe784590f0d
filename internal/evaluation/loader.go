package evaluation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
)

// LoadGoldenQueries reads and parses a golden query set from a JSON file.
func LoadGoldenQueries(path string) ([]GoldenQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden queries file: %w", err)
	}

	var queries []GoldenQuery
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("failed to parse golden queries: %w", err)
	}

	return queries, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// ValidateGoldenQueries checks that all golden queries have required fields
// and name only canonical categories.
func ValidateGoldenQueries(queries []GoldenQuery) error {
	seen := make(map[string]struct{}, len(queries))

	for i, q := range queries {
		if q.ID == "" {
			return fmt.Errorf("query at index %d: missing id", i)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("query at index %d: duplicate id %q", i, q.ID)
		}
		seen[q.ID] = struct{}{}

		if q.Query == "" {
			return fmt.Errorf("query %q: missing query text", q.ID)
		}
		if len(q.ExpectedCategories) == 0 {
			return fmt.Errorf("query %q: no expected categories", q.ID)
		}
		primaryListed := false
		for _, name := range q.ExpectedCategories {
			c, err := entities.ParseCategory(name)
			if err != nil {
				return fmt.Errorf("query %q: %w", q.ID, err)
			}
			if string(c) != name {
				return fmt.Errorf("query %q: category %q must be spelled %q", q.ID, name, c)
			}
			if name == q.PrimaryCategory {
				primaryListed = true
			}
		}
		if !primaryListed {
			return fmt.Errorf("query %q: primary category %q must be one of the expected categories", q.ID, q.PrimaryCategory)
		}
		if !validDifficulties[q.Difficulty] {
			return fmt.Errorf("query %q: invalid difficulty %q (must be easy/medium/hard)", q.ID, q.Difficulty)
		}
	}

	return nil
}
