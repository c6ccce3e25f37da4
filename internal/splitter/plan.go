package splitter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devsjc-forks/beets-ytdlp/internal/pipeline"
	"github.com/devsjc-forks/beets-ytdlp/internal/utils"
)

type trackPlan struct {
	Chapter pipeline.Chapter
	Index   int
	Title   string
	OutPath string
}

// buildPlan maps chapters to output files, preserving chapter order.
// Entries whose start offset is not before their end are skipped with a
// warning instead of aborting the split. Track numbers follow the reported
// chapter positions, including skipped ones.
func buildPlan(dir, ext string, chapters []pipeline.Chapter) ([]trackPlan, []pipeline.SplitWarning) {
	var plan []trackPlan
	var warnings []pipeline.SplitWarning
	seen := make(map[string]bool)
	for i, chapter := range chapters {
		if chapter.Start >= chapter.End {
			warnings = append(warnings, pipeline.SplitWarning{
				Chapter: chapter.Title,
				Reason:  fmt.Sprintf("start offset %s is not before end offset %s", chapter.Start, chapter.End),
			})
			continue
		}
		title := chapter.Title
		if title == "" {
			title = fmt.Sprintf("Track %02d", i+1)
		}
		name := fmt.Sprintf("%02d - %s%s", i+1, utils.SanitizeFilename(title), ext)
		outPath := resolveCollision(filepath.Join(dir, name), seen)
		seen[outPath] = true
		plan = append(plan, trackPlan{
			Chapter: chapter,
			Index:   i + 1,
			Title:   title,
			OutPath: outPath,
		})
	}
	return plan, warnings
}

// resolveCollision applies the -(n) suffix policy when the planned name is
// already taken, either on disk or earlier in the same plan.
func resolveCollision(path string, seen map[string]bool) string {
	taken := func(p string) bool {
		if seen[p] {
			return true
		}
		_, err := os.Stat(p)
		return err == nil
	}
	if !taken(path) {
		return path
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	for index := 1; ; index++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-(%d)%s", name, index, ext))
		if !taken(candidate) {
			return candidate
		}
	}
}
