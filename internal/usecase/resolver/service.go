package resolver

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// fuzzyCutoff is the minimum similarity ratio for a vocabulary match.
	fuzzyCutoff = 0.6
	// fuzzyLimit caps how many fuzzy candidates a single colour expands to.
	fuzzyLimit = 6
)

var categorySplitRe = regexp.MustCompile(`[,/\s]+`)

// Service maps raw shopper attributes onto catalog vocabulary. Resolution
// never fails: an unresolvable value falls back to the raw token so the
// cascade can still try it as a literal filter.
type Service struct {
	vocab  VocabSource
	logger *zap.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	colours []string
	loaded  bool
}

// New creates an attribute resolver backed by the given vocabulary source.
func New(vocab VocabSource, logger *zap.Logger) *Service {
	return &Service{vocab: vocab, logger: logger}
}

// ResolveColor expands a shopper colour into catalog colour values. Returns
// nil for an empty input, otherwise always at least one value.
func (s *Service) ResolveColor(ctx context.Context, raw string) []string {
	uc := strings.ToLower(strings.TrimSpace(raw))
	if uc == "" {
		return nil
	}

	vocab := s.colourVocabulary(ctx)

	// Family name: prefer the members the catalog actually stocks.
	if family, ok := colourFamilies[uc]; ok {
		if vals := intersect(family, vocab); len(vals) > 0 {
			return vals
		}
		return append([]string(nil), family...)
	}

	// Exact vocabulary hit.
	for _, v := range vocab {
		if v == uc {
			return []string{uc}
		}
	}

	// Fuzzy match against the vocabulary.
	if matches := closeMatches(uc, vocab); len(matches) > 0 {
		return matches
	}

	// Family membership probe: "navy" should land in the blue family.
	for _, fam := range colourFamilyOrder {
		members := colourFamilies[fam]
		for _, m := range members {
			if uc == m || strings.Contains(m, uc) || strings.Contains(uc, m) {
				if vals := intersect(members, vocab); len(vals) > 0 {
					return vals
				}
				return append([]string(nil), members...)
			}
		}
	}

	return []string{uc}
}

// ResolveCategory expands a shopper category into ranking keywords. Returns
// nil for an empty input.
func (s *Service) ResolveCategory(raw string) []string {
	uc := strings.ToLower(strings.TrimSpace(raw))
	if uc == "" {
		return nil
	}

	if aliases, ok := categoryAliases[uc]; ok {
		return append([]string(nil), aliases...)
	}

	var tokens []string
	for _, t := range categorySplitRe.Split(uc, -1) {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return []string{uc}
	}
	return tokens
}

// colourVocabulary returns the memoized catalog colour list. The first call
// fetches it through singleflight; a fetch failure degrades to an empty
// vocabulary so resolution falls back to family and raw values.
func (s *Service) colourVocabulary(ctx context.Context) []string {
	s.mu.RLock()
	if s.loaded {
		v := s.colours
		s.mu.RUnlock()
		return v
	}
	s.mu.RUnlock()

	v, err, _ := s.group.Do("colours", func() (any, error) {
		vals, err := s.vocab.DistinctColors(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.colours = vals
		s.loaded = true
		s.mu.Unlock()
		return vals, nil
	})
	if err != nil {
		s.logger.Warn("colour vocabulary fetch failed", zap.Error(err))
		return nil
	}
	return v.([]string)
}

// intersect returns the members present in vocab, preserving member order.
func intersect(members, vocab []string) []string {
	if len(vocab) == 0 {
		return nil
	}
	known := make(map[string]bool, len(vocab))
	for _, v := range vocab {
		known[v] = true
	}
	var out []string
	for _, m := range members {
		if known[m] {
			out = append(out, m)
		}
	}
	return out
}

// closeMatches returns up to fuzzyLimit vocabulary values whose similarity
// ratio to target is at least fuzzyCutoff, best match first.
func closeMatches(target string, vocab []string) []string {
	type candidate struct {
		value string
		ratio float64
	}
	var cands []candidate
	for _, v := range vocab {
		if r := similarityRatio(target, v); r >= fuzzyCutoff {
			cands = append(cands, candidate{value: v, ratio: r})
		}
	}
	if len(cands) == 0 {
		return nil
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].ratio > cands[j].ratio })
	if len(cands) > fuzzyLimit {
		cands = cands[:fuzzyLimit]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.value
	}
	return out
}

// similarityRatio is 1 - editDistance/longestLength, in [0,1].
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
