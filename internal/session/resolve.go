package session

import (
	"os"
	"path/filepath"

	"github.com/richardbrown-dev/dht-doctor/internal/core"
)

// ResolveExecutable returns the first candidate path that exists as a
// regular file. Relative candidates are resolved against workdir when one is
// configured. When nothing matches it fails fast with a spawn error telling
// the caller to build the crawler first; no process is spawned.
func ResolveExecutable(candidates []string, workdir string) (string, error) {
	for _, cand := range candidates {
		path := cand
		if workdir != "" && !filepath.IsAbs(cand) {
			path = filepath.Join(workdir, cand)
		}
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", core.ErrSpawn(core.CodeCrawlerNotFound,
		"crawler executable not found in any candidate path; build the crawler first")
}
