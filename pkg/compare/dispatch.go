// Package compare implements the three comparison strategies (text,
// structured, binary-hash) and the resolved-mode dispatch between them.
package compare

import (
	"context"

	"github.com/sdejongh/filecompare/pkg/logging"
	"github.com/sdejongh/filecompare/pkg/models"
)

// Dispatcher resolves each pair's mode from its entries' types (unless
// overridden by CompareConfig.Mode) and routes it to the matching
// comparator. Binary/Unknown pairs always go to the hash-only path.
type Dispatcher struct {
	Config *models.CompareConfig

	text       *TextComparator
	structured *StructuredComparator
	binary     *BinaryComparator
}

func NewDispatcher(cfg *models.CompareConfig, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		Config:     cfg,
		text:       NewTextComparator(cfg, logger),
		structured: NewStructuredComparator(cfg),
		binary:     NewBinaryComparator(),
	}
}

// Compare resolves a pair's effective mode and dispatches to the
// matching comparator.
func (d *Dispatcher) Compare(ctx context.Context, pair models.Pair) models.ComparisonResult {
	switch d.resolveMode(pair) {
	case models.ModeForceStructured:
		return d.structured.Compare(ctx, pair)
	case models.ModeForceText:
		return d.text.Compare(ctx, pair)
	default:
		return d.autoCompare(ctx, pair)
	}
}

func (d *Dispatcher) autoCompare(ctx context.Context, pair models.Pair) models.ComparisonResult {
	if pair.A.Type.IsTabular() && pair.B.Type.IsTabular() {
		return d.structured.Compare(ctx, pair)
	}
	if pair.A.Type.IsTextLike() && pair.B.Type.IsTextLike() {
		return d.text.Compare(ctx, pair)
	}
	return d.binary.Compare(ctx, pair)
}

func (d *Dispatcher) resolveMode(pair models.Pair) models.CompareMode {
	if d.Config.Mode == models.ModeForceText || d.Config.Mode == models.ModeForceStructured {
		if (pair.A.Type == models.Binary || pair.A.Type == models.Unknown) &&
			(pair.B.Type == models.Binary || pair.B.Type == models.Unknown) {
			return models.ModeAuto
		}
		return d.Config.Mode
	}
	return models.ModeAuto
}
