package progress

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/sdejongh/filecompare/pkg/models"
)

// JSONObserver writes each ProgressEvent as one JSON line, for
// machine-readable consumption (CI logs, a wrapping process).
type JSONObserver struct {
	mu     sync.Mutex
	writer io.Writer
	enc    *json.Encoder
}

func NewJSONObserver(w io.Writer) *JSONObserver {
	if w == nil {
		w = os.Stdout
	}
	return &JSONObserver{writer: w, enc: json.NewEncoder(w)}
}

type jsonEvent struct {
	Stage      string  `json:"stage"`
	Message    string  `json:"message"`
	Current    int64   `json:"current"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"percentage"`
}

func (j *JSONObserver) Observe(e models.ProgressEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()
	_ = j.enc.Encode(jsonEvent{
		Stage:      string(e.Stage),
		Message:    e.Message,
		Current:    e.Current,
		Total:      e.Total,
		Percentage: e.Percentage,
	})
}
