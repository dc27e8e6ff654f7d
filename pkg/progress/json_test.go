package progress

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sdejongh/filecompare/pkg/models"
)

func TestJSONObserverEmitsOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewJSONObserver(&buf)

	obs.Observe(models.NewProgressEvent(models.StageIndexing, "root-a", 1, 4))
	obs.Observe(models.NewProgressEvent(models.StageIndexing, "root-a", 2, 4))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}

	var evt jsonEvent
	if err := json.Unmarshal([]byte(lines[0]), &evt); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if evt.Stage != string(models.StageIndexing) || evt.Current != 1 || evt.Total != 4 {
		t.Errorf("decoded event = %+v, want stage=indexing current=1 total=4", evt)
	}
	if evt.Percentage != 25.0 {
		t.Errorf("Percentage = %v, want 25.0", evt.Percentage)
	}
}

func TestJSONObserverIsSafeForConcurrentUse(t *testing.T) {
	var buf bytes.Buffer
	obs := NewJSONObserver(&buf)

	done := make(chan struct{})
	for i := 0; i < 2; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				obs.Observe(models.NewProgressEvent(models.StageComparing, "x", int64(j), 50))
			}
			done <- struct{}{}
		}()
	}
	<-done
	<-done

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Fatalf("len(lines) = %d, want 100", len(lines))
	}
}
