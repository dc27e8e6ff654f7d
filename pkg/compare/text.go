package compare

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/sdejongh/filecompare/pkg/fingerprint"
	"github.com/sdejongh/filecompare/pkg/lineutil"
	"github.com/sdejongh/filecompare/pkg/logging"
	"github.com/sdejongh/filecompare/pkg/models"
)

// regexPatternSizeCap bounds the ignore_regex setting by pattern length.
// Go's regexp package does not expose the compiled program or DFA size,
// so no separate compiled-size or DFA-size cap is applied.
const (
	regexPatternSizeCap = 1 << 20
)

// TextComparator produces a TextResult for a pair of text-like entries:
// line-vector diff via Myers' algorithm, a configurable similarity
// score, and a unified-diff payload capped at max_diff_bytes.
type TextComparator struct {
	Config *models.CompareConfig
	Logger logging.Logger

	regex         *regexp.Regexp
	regexDegraded bool
}

// NewTextComparator compiles ignore_regex once, up front, so a bad
// pattern degrades every comparison identically rather than surprising
// the caller mid-run.
func NewTextComparator(cfg *models.CompareConfig, logger logging.Logger) *TextComparator {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	c := &TextComparator{Config: cfg, Logger: logger}

	if cfg.IgnoreRegex == "" {
		return c
	}
	if len(cfg.IgnoreRegex) > regexPatternSizeCap {
		c.regexDegraded = true
		logger.Warn(context.Background(), "ignore_regex exceeds size cap, disabling", logging.Fields{
			"error": models.ErrRegexTooLarge.Error(),
		})
		return c
	}
	re, err := regexp.Compile(cfg.IgnoreRegex)
	if err != nil {
		c.regexDegraded = true
		logger.Warn(context.Background(), "ignore_regex failed to compile, disabling", logging.Fields{
			"error": models.ErrRegexInvalid.Error(),
			"cause": err.Error(),
		})
		return c
	}
	c.regex = re
	return c
}

// Compare reads both sides of the pair fully into line vectors and
// produces a text ComparisonResult.
func (c *TextComparator) Compare(ctx context.Context, pair models.Pair) models.ComparisonResult {
	linesA, err := readEntryLines(pair.A.AbsolutePath, c.Config.TextNormalization.IgnoreEOL)
	if err != nil {
		return errorResult(pair, models.ErrorKindIo, fmt.Sprintf("reading %s: %v", pair.A.RelativePath, err))
	}
	linesB, err := readEntryLines(pair.B.AbsolutePath, c.Config.TextNormalization.IgnoreEOL)
	if err != nil {
		return errorResult(pair, models.ErrorKindIo, fmt.Sprintf("reading %s: %v", pair.B.RelativePath, err))
	}

	linesA = c.applyIgnoreRegex(linesA)
	linesB = c.applyIgnoreRegex(linesB)
	linesA = fingerprint.NormalizeLines(linesA, c.Config.TextNormalization)
	linesB = fingerprint.NormalizeLines(linesB, c.Config.TextNormalization)

	ops := myersDiff(linesA, linesB)
	common, onlyA, onlyB := diffCounts(ops)

	sim := computeSimilarity(c.Config.SimilarityAlgorithm, linesA, linesB, common, onlyA, onlyB)

	payload, truncated := unifiedDiff(ops, pair.A.RelativePath, pair.B.RelativePath, c.Config.MaxDiffBytes)

	return models.ComparisonResult{
		Kind:   models.KindText,
		LinkID: pair.LinkID,
		PathA:  pair.A.RelativePath,
		PathB:  pair.B.RelativePath,
		Text: &models.TextResult{
			LinesA:            len(linesA),
			LinesB:            len(linesB),
			Common:            common,
			OnlyA:             onlyA,
			OnlyB:             onlyB,
			Similarity:        sim.score,
			Identical:         onlyA == 0 && onlyB == 0,
			DetailedDiff:      payload,
			DiffTruncated:     truncated,
			AlgorithmUsed:     string(sim.usedAlgo),
			AlgorithmFellBack: sim.fellBack,
		},
	}
}

func (c *TextComparator) applyIgnoreRegex(lines []string) []string {
	if c.regex == nil {
		return lines
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = c.regex.ReplaceAllString(l, "")
	}
	return out
}

func readEntryLines(path string, foldEOL bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return lineutil.ReadLines(f, foldEOL)
}

func errorResult(pair models.Pair, kind models.ErrorKind, message string) models.ComparisonResult {
	return models.ComparisonResult{
		Kind:   models.KindError,
		LinkID: pair.LinkID,
		PathA:  pair.A.RelativePath,
		PathB:  pair.B.RelativePath,
		Error:  &models.ErrorResult{Kind: kind, Message: message},
	}
}
