package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/licenseprep/curricula/pkg/logger"
)

// supported lists the curriculum document extensions the parser accepts.
var supported = map[string]bool{
	".docx": true,
	".html": true,
	".htm":  true,
}

type Stats struct {
	DirCount  int
	FileCount int
}

// DirectoryScanner finds importable curriculum documents under a root
// directory. Results come back sorted so a directory import is
// deterministic regardless of filesystem order.
type DirectoryScanner struct {
	log *logger.Logger
}

func New(log *logger.Logger) *DirectoryScanner {
	return &DirectoryScanner{log: log.With("component", "scanner")}
}

func (s *DirectoryScanner) ScanDirectory(ctx context.Context, dir string) ([]string, Stats, error) {
	var (
		stats Stats
		docs  []string
	)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("access %s: %w", path, err)
		}

		if info.IsDir() {
			// Editor and office lock files live in hidden directories.
			if strings.HasPrefix(info.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			stats.DirCount++
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !supported[ext] || strings.HasPrefix(info.Name(), "~$") {
			return nil
		}

		docs = append(docs, path)
		stats.FileCount++
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	sort.Strings(docs)

	if stats.FileCount == 0 {
		return nil, stats, fmt.Errorf("no curriculum documents (.docx, .html) found in %s", dir)
	}

	s.log.Debug("directory scan complete", "dir", dir, "documents", stats.FileCount)
	return docs, stats, nil
}
