package installer

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// cleanupGuard owns a set of paths that must not survive a failed run. Run
// deletes everything still owned; paths that must outlive the run are
// released before that. Deletion is best-effort: failures are logged, never
// escalated.
type cleanupGuard struct {
	mu    sync.Mutex
	paths []string
}

func newCleanupGuard() *cleanupGuard {
	return &cleanupGuard{}
}

func (g *cleanupGuard) add(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paths = append(g.paths, path)
}

func (g *cleanupGuard) release(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, p := range g.paths {
		if p == path {
			g.paths = append(g.paths[:i], g.paths[i+1:]...)
			return
		}
	}
}

func (g *cleanupGuard) run() {
	g.mu.Lock()
	paths := g.paths
	g.paths = nil
	g.mu.Unlock()

	for _, p := range paths {
		logrus.Debugf("Removing %s", p)
		if err := os.RemoveAll(p); err != nil {
			logrus.Warnf("Failed to clean up %s: %v", p, err)
		}
	}
}
