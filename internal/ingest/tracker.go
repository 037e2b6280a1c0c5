package ingest

import (
	"os"

	"go.uber.org/zap"
)

// tracker records every artifact written for one document so a failed
// ingestion can remove exactly what it created. Not safe for concurrent
// use; each ingestion owns its own tracker.
type tracker struct {
	files []string
	dirs  []string
}

func newTracker() *tracker {
	return &tracker{}
}

// file records a written artifact file.
func (t *tracker) file(path string) {
	t.files = append(t.files, path)
}

// dir records a created artifact directory. Cleanup removes it recursively,
// so page images inside need not be tracked individually.
func (t *tracker) dir(path string) {
	t.dirs = append(t.dirs, path)
}

// cleanup deletes every tracked artifact, best effort. Failures are logged
// and do not stop the remaining deletions.
func (t *tracker) cleanup(logger *zap.Logger) {
	for _, path := range t.files {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove artifact during cleanup",
				zap.String("path", path),
				zap.Error(err))
		}
	}
	for _, path := range t.dirs {
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("Failed to remove artifact directory during cleanup",
				zap.String("path", path),
				zap.Error(err))
		}
	}
}
