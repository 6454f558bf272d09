package util

import (
	"github.com/sahilm/fuzzy"

	"github.com/mithrel/tutor/pkg/api"
)

// ScoreCompletions returns the top n fuzzy matches for input, best first.
// An empty input returns candidates unchanged; n <= 0 means no limit.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return nil
	}

	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].Str
	}
	return out
}

type draftTitles []api.Draft

func (d draftTitles) String(i int) string { return d[i].Title }
func (d draftTitles) Len() int            { return len(d) }

// RankDrafts fuzzy-matches query against draft titles and returns the best
// n drafts, best first.
func RankDrafts(query string, drafts []api.Draft, n int) []api.Draft {
	if query == "" {
		if n > 0 && len(drafts) > n {
			return drafts[:n]
		}
		return drafts
	}
	matches := fuzzy.FindFrom(query, draftTitles(drafts))
	if n > 0 && len(matches) > n {
		matches = matches[:n]
	}
	out := make([]api.Draft, 0, len(matches))
	for _, m := range matches {
		out = append(out, drafts[m.Index])
	}
	return out
}
