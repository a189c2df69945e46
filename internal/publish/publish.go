// Package publish exports episodes as markdown scripts.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"nameboard/internal/model"
	"nameboard/internal/roster"
	"nameboard/internal/store"
)

type WriteOptions struct {
	Overwrite bool
	Roster    roster.Lookup
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteEpisode writes <toDir>/<projectId>/<episodeId>.md.
func WriteEpisode(ep model.Episode, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	if strings.TrimSpace(ep.ID) == "" {
		return WriteResult{}, errors.New("missing episode id")
	}
	outDir := filepath.Join(filepath.Clean(toDir), fileName(ep.ProjectID))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, fileName(ep.ID)+".md")
	if err := writeFile(outPath, []byte(RenderEpisodeMarkdown(ep, opt.Roster)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return store.WriteFileAtomic(path, b, 0o644)
}

func fileName(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return "default"
	}
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(id)
}
