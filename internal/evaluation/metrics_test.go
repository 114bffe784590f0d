package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecallAtK(t *testing.T) {
	tests := []struct {
		name     string
		expected []string
		inferred []string
		k        int
		want     float64
	}{
		{"all expected in top k", []string{"Electronics", "Metals"}, []string{"Metals", "Electronics", "Plastics"}, 3, 1.0},
		{"one of two found", []string{"Electronics", "Metals"}, []string{"Electronics", "Plastics"}, 3, 0.5},
		{"found beyond k ignored", []string{"Metals"}, []string{"Electronics", "Plastics", "Glassware", "Metals"}, 3, 0.0},
		{"nothing inferred", []string{"Chemicals"}, nil, 3, 0.0},
		{"no expectation", nil, []string{"Chemicals"}, 3, 0.0},
		{"duplicate inferred label counted once", []string{"Metals", "Plastics"}, []string{"Metals", "Metals"}, 3, 0.5},
		{"inferred shorter than k", []string{"Glassware"}, []string{"Glassware"}, 3, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RecallAtK(tt.expected, tt.inferred, tt.k), 1e-9)
		})
	}
}

func TestMRRAtK(t *testing.T) {
	tests := []struct {
		name     string
		expected []string
		inferred []string
		k        int
		want     float64
	}{
		{"first rank", []string{"Electronics"}, []string{"Electronics", "Metals"}, 3, 1.0},
		{"third rank", []string{"Glassware"}, []string{"Chemicals", "Plastics", "Glassware"}, 3, 1.0 / 3.0},
		{"first of several expected wins", []string{"Metals", "Plastics"}, []string{"Other", "Plastics", "Metals"}, 3, 0.5},
		{"outside k", []string{"Other"}, []string{"Chemicals", "Plastics", "Glassware", "Other"}, 3, 0.0},
		{"empty inferred", []string{"Other"}, nil, 3, 0.0},
		{"empty expected", nil, []string{"Other"}, 3, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MRRAtK(tt.expected, tt.inferred, tt.k), 1e-9)
		})
	}
}

func TestTopHit(t *testing.T) {
	assert.True(t, TopHit("Electronics", []string{"Electronics", "Metals"}))
	assert.False(t, TopHit("Metals", []string{"Electronics", "Metals"}))
	assert.False(t, TopHit("Metals", nil))
}
