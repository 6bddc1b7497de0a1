package aggregate

import (
	"sort"

	"github.com/tswoboda/voicedash/internal/stopwords"
	"github.com/tswoboda/voicedash/internal/store"
)

// GenerateNgrams counts unigrams, bigrams and trigrams over the rows'
// lemmatized tokens. A window is counted only if every constituent token
// passes the stopword filter. When phraseTerm is non-empty, bigrams and
// trigrams are restricted to windows containing that term as a whole
// token.
func GenerateNgrams(rows []store.Row, sw stopwords.Set, phraseTerm string) store.Ngrams {
	ng := store.Ngrams{
		Unigrams: make(map[string]int),
		Bigrams:  make(map[string]int),
		Trigrams: make(map[string]int),
	}

	for _, row := range rows {
		tokens := row.Tokens
		for i, t := range tokens {
			if sw.Contains(t) {
				continue
			}
			ng.Unigrams[t]++

			if i+1 < len(tokens) && !sw.Contains(tokens[i+1]) {
				if phraseTerm == "" || t == phraseTerm || tokens[i+1] == phraseTerm {
					ng.Bigrams[t+" "+tokens[i+1]]++
				}
			}
			if i+2 < len(tokens) && !sw.Contains(tokens[i+1]) && !sw.Contains(tokens[i+2]) {
				if phraseTerm == "" || t == phraseTerm || tokens[i+1] == phraseTerm || tokens[i+2] == phraseTerm {
					ng.Trigrams[t+" "+tokens[i+1]+" "+tokens[i+2]]++
				}
			}
		}
	}
	return ng
}

// topCounts returns the n highest-count entries of a count map, highest
// first. Ties break alphabetically so output order is stable.
func topCounts(counts map[string]int, n int) []WordCount {
	out := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		out = append(out, WordCount{Word: word, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func maxCount(counts map[string]int) int {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	return max
}
