package devlist

import (
	"regexp"

	"github.com/radovskyb/watcher"
)

var videoNode = regexp.MustCompile(`^video[0-9]+$`)

// NewWatcher returns a polling watcher that reports video nodes
// appearing in or disappearing from dir. The caller starts it with
// Start and consumes w.Event.
func NewWatcher(dir string) (*watcher.Watcher, error) {
	w := watcher.New()
	w.FilterOps(watcher.Create, watcher.Remove)
	w.AddFilterHook(watcher.RegexFilterHook(videoNode, false))
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}
