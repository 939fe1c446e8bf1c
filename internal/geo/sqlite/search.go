package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"citypick/internal/domain"
)

const maxSearchResults = 20

type searchCandidate struct {
	code       string
	name       string
	parentName string
	level      int
	position   int
}

type scoredCandidate struct {
	searchCandidate
	rank     int // 0 exact, 1 prefix, 2 substring, 3 fuzzy
	distance int
}

// Search ranks every node against text: exact name or code first, then
// prefix, substring, and finally names within a small edit distance.
func (s *Store) Search(ctx context.Context, text string) ([]domain.SearchResult, error) {
	query := strings.ToLower(strings.TrimSpace(text))
	if query == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT n.code, n.name, COALESCE(p.name, ''), n.level, n.position
		FROM nodes n LEFT JOIN nodes p ON p.code = n.parent_code
		ORDER BY n.source, n.level, n.position`)
	if err != nil {
		return nil, fmt.Errorf("query search candidates: %w", err)
	}
	defer rows.Close()

	var scored []scoredCandidate
	for rows.Next() {
		var c searchCandidate
		if err := rows.Scan(&c.code, &c.name, &c.parentName, &c.level, &c.position); err != nil {
			return nil, fmt.Errorf("scan search candidate: %w", err)
		}
		if sc, ok := scoreCandidate(c, query); ok {
			scored = append(scored, sc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].rank != scored[j].rank {
			return scored[i].rank < scored[j].rank
		}
		if scored[i].distance != scored[j].distance {
			return scored[i].distance < scored[j].distance
		}
		return scored[i].level > scored[j].level
	})
	if len(scored) > maxSearchResults {
		scored = scored[:maxSearchResults]
	}

	out := make([]domain.SearchResult, 0, len(scored))
	for _, sc := range scored {
		label := sc.name
		if sc.parentName != "" {
			label = sc.parentName + "·" + sc.name
		}
		out = append(out, domain.SearchResult{Label: label, Value: domain.Code(sc.code)})
	}
	return out, nil
}

func scoreCandidate(c searchCandidate, query string) (scoredCandidate, bool) {
	name := strings.ToLower(c.name)
	code := strings.ToLower(c.code)
	switch {
	case name == query || code == query:
		return scoredCandidate{searchCandidate: c, rank: 0}, true
	case strings.HasPrefix(name, query):
		return scoredCandidate{searchCandidate: c, rank: 1}, true
	case strings.Contains(name, query):
		return scoredCandidate{searchCandidate: c, rank: 2}, true
	}

	// Compare against the name prefix of the same length so that short
	// queries can still tolerate a typo in a longer name.
	n := utf8.RuneCountInString(query)
	if n < 3 {
		return scoredCandidate{}, false
	}
	runes := []rune(name)
	if len(runes) > n {
		runes = runes[:n]
	}
	d := levenshtein.ComputeDistance(string(runes), query)
	if d > fuzzyBudget(n) {
		return scoredCandidate{}, false
	}
	return scoredCandidate{searchCandidate: c, rank: 3, distance: d}, true
}

func fuzzyBudget(queryLen int) int {
	if queryLen >= 7 {
		return 2
	}
	return 1
}
