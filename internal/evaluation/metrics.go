package evaluation

// RecallAtK is the share of expected labels that appear in the first k
// inferred labels. An empty expectation scores zero.
func RecallAtK(expected, inferred []string, k int) float64 {
	if len(expected) == 0 {
		return 0.0
	}

	want := labelSet(expected)
	found := 0
	for _, label := range firstK(inferred, k) {
		if _, ok := want[label]; ok {
			found++
			delete(want, label)
		}
	}

	return float64(found) / float64(len(expected))
}

// MRRAtK is the reciprocal rank of the first expected label within the
// first k inferred labels, or zero when none appears.
func MRRAtK(expected, inferred []string, k int) float64 {
	if len(expected) == 0 {
		return 0.0
	}

	want := labelSet(expected)
	for i, label := range firstK(inferred, k) {
		if _, ok := want[label]; ok {
			return 1.0 / float64(i+1)
		}
	}

	return 0.0
}

// TopHit reports whether the highest-ranked inferred label is primary.
func TopHit(primary string, inferred []string) bool {
	return len(inferred) > 0 && inferred[0] == primary
}

func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

func firstK(labels []string, k int) []string {
	if k < 0 {
		k = 0
	}
	if k < len(labels) {
		return labels[:k]
	}
	return labels
}
