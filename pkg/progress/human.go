// Package progress implements the two stock consumers of the
// comparison engine's write-only progress channel: a colored terminal
// renderer and a newline-delimited JSON stream.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/sdejongh/filecompare/pkg/models"
)

var stageColors = map[models.Stage]*color.Color{
	models.StageIndexing:       color.New(color.FgCyan),
	models.StageFingerprinting: color.New(color.FgBlue),
	models.StageMatching:       color.New(color.FgMagenta),
	models.StageComparing:      color.New(color.FgYellow),
	models.StageReporting:      color.New(color.FgGreen),
}

// HumanObserver renders one progress bar per pipeline stage to a
// terminal, or falls back to periodic plain-text lines when the
// underlying writer is not a TTY (redirected output, CI logs).
type HumanObserver struct {
	writer io.Writer
	isTTY  bool
	width  int

	mu   sync.Mutex
	bars map[models.Stage]*pb.ProgressBar
}

// NewHumanObserver builds a HumanObserver writing to w (os.Stderr when
// nil, matching where the teacher's progress renderer writes).
func NewHumanObserver(w io.Writer) *HumanObserver {
	if w == nil {
		w = os.Stderr
	}
	tty := false
	width := 120
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd())
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			width = tw
		}
	}
	return &HumanObserver{writer: w, isTTY: tty, width: width, bars: make(map[models.Stage]*pb.ProgressBar)}
}

// Observe implements models.ProgressObserver.
func (h *HumanObserver) Observe(e models.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.isTTY {
		h.renderPlain(e)
		return
	}

	bar, ok := h.bars[e.Stage]
	if !ok {
		total := e.Total
		if total <= 0 {
			total = 1
		}
		bar = pb.New64(total)
		bar.SetTemplateString(h.templateFor(e.Stage))
		bar.SetWriter(h.writer)
		bar.SetWidth(h.width)
		bar.Start()
		h.bars[e.Stage] = bar
	}
	if e.Total > 0 && e.Total != bar.Total() {
		bar.SetTotal(e.Total)
	}
	bar.SetCurrent(e.Current)
	if e.Total > 0 && e.Current >= e.Total {
		bar.Finish()
	}
}

func (h *HumanObserver) templateFor(stage models.Stage) string {
	c := stageColors[stage]
	label := c.Sprintf("%-14s", stage)
	return fmt.Sprintf(`%s {{counters . }} {{bar . }} {{percent . }} {{etime . }}`, label)
}

// renderPlain prints one line every time an event's percentage crosses
// a whole multiple of 10, which keeps non-interactive logs readable
// without spamming a line per file.
func (h *HumanObserver) renderPlain(e models.ProgressEvent) {
	if e.Total > 0 {
		bucket := int(e.Percentage) / 10
		prevBucket := -1
		if e.Current > 1 {
			prevPct := float64(e.Current-1) / float64(e.Total) * 100.0
			prevBucket = int(prevPct) / 10
		}
		if bucket == prevBucket {
			return
		}
	}
	fmt.Fprintf(h.writer, "[%s] %d/%d %s\n", e.Stage, e.Current, e.Total, e.Message)
}
