package game

import (
	"context"
	"os"
	"time"
)

// fileState is what the watcher remembers about one rule file.
type fileState struct {
	exists  bool
	size    int64
	modTime time.Time
}

func stat(path string) fileState {
	fi, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, size: fi.Size(), modTime: fi.ModTime()}
}

// FileWatcher polls rule files and reports the ones that were created,
// removed or rewritten since the previous poll. All changes seen in one poll
// are delivered in a single callback so layered files reload once.
type FileWatcher struct {
	paths    []string
	interval time.Duration
	onChange func(changed []string)

	seen map[string]fileState
}

// NewFileWatcher snapshots paths immediately; only later changes are reported.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(changed []string)) *FileWatcher {
	w := &FileWatcher{
		paths:    paths,
		interval: interval,
		onChange: onChange,
		seen:     make(map[string]fileState, len(paths)),
	}
	for _, p := range paths {
		w.seen[p] = stat(p)
	}
	return w
}

// Run polls until ctx is done and returns ctx.Err().
func (w *FileWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if changed := w.poll(); len(changed) > 0 && w.onChange != nil {
				w.onChange(changed)
			}
		}
	}
}

// poll returns the watched paths whose state differs from the last poll.
func (w *FileWatcher) poll() []string {
	var changed []string
	for _, p := range w.paths {
		cur := stat(p)
		if prev := w.seen[p]; prev.exists != cur.exists || prev.size != cur.size || !prev.modTime.Equal(cur.modTime) {
			changed = append(changed, p)
		}
		w.seen[p] = cur
	}
	return changed
}
