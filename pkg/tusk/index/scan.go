package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Stats summarises one IndexDir run.
type Stats struct {
	Added     int
	Updated   int
	Unchanged int
	Failed    []string // files that did not parse
	Removed   int
	Duration  time.Duration
}

// String formats the stats for logging.
func (s Stats) String() string {
	return fmt.Sprintf("added=%d updated=%d unchanged=%d failed=%d removed=%d duration=%v",
		s.Added, s.Updated, s.Unchanged, len(s.Failed), s.Removed, s.Duration)
}

// IndexDir indexes every file under root with one of the given extensions,
// skipping hidden directories, and drops records of files under root that
// no longer exist.
func (idx *Index) IndexDir(root string, extensions []string) (*Stats, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesExtension(path, extensions) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", absRoot, err)
	}

	stats := &Stats{}
	present := make(map[string]bool, len(paths))
	for _, path := range paths {
		present[path] = true
		status, err := idx.IndexFile(path)
		if err != nil {
			return nil, err
		}
		switch status {
		case Added:
			stats.Added++
		case Updated:
			stats.Updated++
		case Unchanged:
			stats.Unchanged++
		case Failed:
			stats.Failed = append(stats.Failed, path)
		}
	}

	indexed, err := idx.Files()
	if err != nil {
		return nil, fmt.Errorf("failed to list indexed files: %w", err)
	}
	prefix := absRoot + string(filepath.Separator)
	for _, path := range indexed {
		if !strings.HasPrefix(path, prefix) || present[path] {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := idx.RemoveFile(path); err != nil {
				return nil, err
			}
			idx.log.Infof("removed: %s", path)
			stats.Removed++
		}
	}

	stats.Duration = time.Since(start)
	idx.log.Noticef("indexed %s: %s", absRoot, stats)
	return stats, nil
}
