// Package match implements pair generation: selecting which entries on
// side L are compared against which on side R, with blocking heuristics
// and top-K candidate selection on fingerprint similarity.
package match

import (
	"sort"
	"sync"

	"github.com/sdejongh/filecompare/internal/platform"
	"github.com/sdejongh/filecompare/pkg/models"
)

// Generator produces candidate pairs from two indexed, fingerprinted
// sides according to the configured pairing strategy.
type Generator struct {
	Config      *models.CompareConfig
	Concurrency int
	Observer    models.ProgressObserver
}

// New creates a Generator.
func New(cfg *models.CompareConfig, concurrency int, observer models.ProgressObserver) *Generator {
	if concurrency <= 0 {
		concurrency = 4
	}
	if observer == nil {
		observer = models.NoopObserver{}
	}
	return &Generator{Config: cfg, Concurrency: concurrency, Observer: observer}
}

// Generate emits a deduplicated pair list per the configured strategy.
// Pair generation is a pure function of (left, right, config): repeated
// invocation on the same inputs yields the same list in the same order.
func (g *Generator) Generate(left, right []models.FileEntry) []models.Pair {
	var pairs []models.Pair

	switch g.Config.Pairing {
	case models.PairingSamePath:
		pairs = g.matchByPath(left, right)
	case models.PairingSameName:
		pairs = g.matchByName(left, right)
	default:
		pairs = g.allVsAll(left, right)
	}

	pairs = dedupe(pairs)
	sortPairs(pairs)

	if g.Config.MaxPairs > 0 && len(pairs) > g.Config.MaxPairs {
		pairs = pairs[:g.Config.MaxPairs]
	}

	return pairs
}

func usable(e *models.FileEntry) bool {
	return e.FingerprintErr == nil
}

func (g *Generator) matchByPath(left, right []models.FileEntry) []models.Pair {
	byPath := make(map[string]*models.FileEntry, len(right))
	for i := range right {
		if usable(&right[i]) {
			byPath[right[i].RelativePath] = &right[i]
		}
	}

	var pairs []models.Pair
	for i := range left {
		l := &left[i]
		if !usable(l) {
			continue
		}
		if r, ok := byPath[l.RelativePath]; ok {
			pairs = append(pairs, models.NewPair(l, r, 1.0))
		}
	}
	return pairs
}

func (g *Generator) matchByName(left, right []models.FileEntry) []models.Pair {
	byName := make(map[string][]*models.FileEntry)
	for i := range right {
		if usable(&right[i]) {
			name := platform.Base(right[i].RelativePath)
			byName[name] = append(byName[name], &right[i])
		}
	}

	var pairs []models.Pair
	for i := range left {
		l := &left[i]
		if !usable(l) {
			continue
		}
		candidates := byName[platform.Base(l.RelativePath)]
		if len(candidates) == 0 {
			continue
		}

		best := candidates[0]
		bestScore := estimateSimilarity(l, best)
		for _, c := range candidates[1:] {
			if score := estimateSimilarity(l, c); score > bestScore {
				best, bestScore = c, score
			}
		}
		pairs = append(pairs, models.NewPair(l, best, bestScore))
	}
	return pairs
}

// allVsAll runs two passes: exact hash matches first (greedy,
// first-unmatched-wins), then blocking-and-ranking over the remainder.
func (g *Generator) allVsAll(left, right []models.FileEntry) []models.Pair {
	usedRight := make(map[string]bool)
	var pairs []models.Pair

	byHash := make(map[string][]*models.FileEntry)
	for i := range right {
		r := &right[i]
		if !usable(r) {
			continue
		}
		h := r.HashHex()
		byHash[h] = append(byHash[h], r)
	}

	var remaining []*models.FileEntry
	for i := range left {
		l := &left[i]
		if !usable(l) {
			continue
		}
		matched := false
		for _, r := range byHash[l.HashHex()] {
			if usedRight[r.RelativePath] {
				continue
			}
			pairs = append(pairs, models.NewPair(l, r, 1.0))
			usedRight[r.RelativePath] = true
			matched = true
			break
		}
		if !matched {
			remaining = append(remaining, l)
		}
	}

	var rightCandidates []*models.FileEntry
	for i := range right {
		r := &right[i]
		if usable(r) && !usedRight[r.RelativePath] {
			rightCandidates = append(rightCandidates, r)
		}
	}

	topK := g.Config.ClampedTopK()
	sem := make(chan struct{}, g.Concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var done int64

	for _, l := range remaining {
		wg.Add(1)
		sem <- struct{}{}
		go func(l *models.FileEntry) {
			defer wg.Done()
			defer func() { <-sem }()

			ranked := rankCandidates(l, rightCandidates, topK)

			mu.Lock()
			pairs = append(pairs, ranked...)
			done++
			n := done
			mu.Unlock()
			g.Observer.Observe(models.NewProgressEvent(models.StageMatching, l.RelativePath, n, int64(len(remaining))))
		}(l)
	}
	wg.Wait()

	return pairs
}

func rankCandidates(l *models.FileEntry, candidates []*models.FileEntry, topK int) []models.Pair {
	type scored struct {
		r     *models.FileEntry
		score float64
	}

	var passing []scored
	for _, r := range candidates {
		if !passesBlockingRules(l, r) {
			continue
		}
		passing = append(passing, scored{r: r, score: estimateSimilarity(l, r)})
	}

	sort.SliceStable(passing, func(i, j int) bool {
		if passing[i].score != passing[j].score {
			return passing[i].score > passing[j].score
		}
		return passing[i].r.RelativePath < passing[j].r.RelativePath
	})

	if len(passing) > topK {
		passing = passing[:topK]
	}

	out := make([]models.Pair, 0, len(passing))
	for _, s := range passing {
		out = append(out, models.NewPair(l, s.r, s.score))
	}
	return out
}

func dedupe(pairs []models.Pair) []models.Pair {
	seen := make(map[string]bool, len(pairs))
	out := make([]models.Pair, 0, len(pairs))
	for _, p := range pairs {
		key := p.A.RelativePath + "\x00" + p.B.RelativePath
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func sortPairs(pairs []models.Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A.RelativePath != pairs[j].A.RelativePath {
			return pairs[i].A.RelativePath < pairs[j].A.RelativePath
		}
		return pairs[i].B.RelativePath < pairs[j].B.RelativePath
	})
}
