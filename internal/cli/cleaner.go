package cli

import (
	"fmt"
	"strings"

	"github.com/toyz/rsbind/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	files *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner(files *utils.FileProcessor) *Cleaner {
	if files == nil {
		files = utils.NewFileProcessor()
	}
	return &Cleaner{files: files}
}

// CleanGeneratedFiles removes every file carrying the rsbind header below
// the specified directories. Go-style "./..." patterns name their base
// directory. Removed paths are returned.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	dirs := make([]string, 0, len(directories))
	for _, dir := range directories {
		if strings.HasSuffix(dir, "/...") {
			dir = strings.TrimSuffix(dir, "/...")
			if dir == "" {
				dir = "."
			}
		}
		dirs = append(dirs, dir)
	}

	removed, err := c.files.CleanDirectories(dirs)
	if err != nil {
		return removed, fmt.Errorf("failed to clean directories: %w", err)
	}
	return removed, nil
}
