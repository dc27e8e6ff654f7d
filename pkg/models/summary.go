package models

import "time"

// Summary aggregates a run's results, returned alongside the results
// stream from Engine.Run.
type Summary struct {
	TotalA         int
	TotalB         int
	PairsCompared  int
	Identical      int
	Different      int
	Errors         int
	AvgSimilarity  float64
	MinSimilarity  float64
	MaxSimilarity  float64

	Elapsed        time.Duration
	BytesProcessed int64
	PeakRSSBytes   uint64 // best-effort; 0 when unavailable
}

// Accumulate folds one result's similarity into the running summary
// statistics. Call Finalize once all results have been folded in.
func (s *Summary) Accumulate(r *ComparisonResult) {
	s.PairsCompared++
	if r.Kind == KindError {
		s.Errors++
		return
	}
	if r.IsIdentical() {
		s.Identical++
	} else {
		s.Different++
	}
	sim := r.Similarity()
	if s.PairsCompared-s.Errors == 1 {
		s.MinSimilarity = sim
		s.MaxSimilarity = sim
	} else {
		if sim < s.MinSimilarity {
			s.MinSimilarity = sim
		}
		if sim > s.MaxSimilarity {
			s.MaxSimilarity = sim
		}
	}
	s.AvgSimilarity += sim
}

// Finalize converts the running similarity sum into an average.
func (s *Summary) Finalize() {
	n := s.PairsCompared - s.Errors
	if n > 0 {
		s.AvgSimilarity /= float64(n)
	}
}
