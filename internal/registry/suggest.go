package registry

import (
	"sort"
	"strings"

	"github.com/tooltree/cli/internal/tooldefs"
)

func sortDefinitions(defs []*tooldefs.Definition) {
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].DisplayName() < defs[j].DisplayName()
	})
}

// levenshtein calculates the edit distance between two strings.
func levenshtein(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}
	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(a)][len(b)]
}

type suggestion struct {
	name     string
	distance int
}

// SuggestSimilar finds subtool names under namespace similar to word,
// returning up to maxResults suggestions ordered by edit distance.
func (l *Loader) SuggestSimilar(namespace []string, word string, maxResults int) []string {
	const maxDistance = 3

	var candidates []suggestion
	for _, def := range l.Subtools(namespace, false) {
		name := def.SimpleName()
		dist := levenshtein(word, name)
		if dist > 0 && dist <= maxDistance {
			candidates = append(candidates, suggestion{name: name, distance: dist})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	result := make([]string, len(candidates))
	for i, s := range candidates {
		result[i] = s.name
	}
	return result
}
