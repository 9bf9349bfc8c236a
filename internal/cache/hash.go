package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"hellosleep/internal/model"
)

// Normalize trims every value and drops the empty ones.
func Normalize(answers model.AnswerSet) model.AnswerSet {
	return answers.Normalized()
}

// Hash is the pattern key: sha256 over the sorted "key:value" pairs joined by "|".
// Two answer sets that differ only in empty answers or key order hash the same.
func Hash(answers model.AnswerSet) string {
	norm := Normalize(answers)
	keys := make([]string, 0, len(norm))
	for k := range norm {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + ":" + norm[k]
	}
	sum := sha256.Sum256([]byte(strings.Join(pairs, "|")))
	return hex.EncodeToString(sum[:])
}

// Similarity is the fraction of matching key/value pairs over the union of answered keys.
func Similarity(a, b model.AnswerSet) float64 {
	na, nb := Normalize(a), Normalize(b)
	union := len(na)
	matches := 0
	for k, v := range nb {
		av, ok := na[k]
		if !ok {
			union++
			continue
		}
		if av == v {
			matches++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(matches) / float64(union)
}
