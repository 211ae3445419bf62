package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"planote/internal/modules/note/domain"
	noteout "planote/internal/modules/note/port/out"
	"planote/internal/platform/markdown"
	"planote/internal/platform/slug"
)

type frontmatter struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	UpdatedAt string `yaml:"updated_at"`
}

// MarkdownExporter writes one <slug>.md file per note, with the note's
// identity in a YAML frontmatter block.
type MarkdownExporter struct{}

var _ noteout.Exporter = MarkdownExporter{}

func (MarkdownExporter) Export(ctx context.Context, dir string, notes []domain.Note) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	taken := map[string]struct{}{}
	files := make([]string, 0, len(notes))
	for _, note := range notes {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		meta := frontmatter{
			ID:        note.ID,
			Title:     note.DisplayTitle(),
			UpdatedAt: note.UpdatedAt.UTC().Format(time.RFC3339),
		}
		rendered, err := markdown.RenderFrontmatter(meta, note.Body)
		if err != nil {
			return files, err
		}
		path := filepath.Join(dir, slug.Unique(meta.Title, taken)+".md")
		if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
			return files, fmt.Errorf("write note markdown: %w", err)
		}
		files = append(files, path)
	}
	return files, nil
}
