// Package extract plans and executes batch invoice extraction runs.
package extract

import (
	"context"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/hederw/nfs-extrator/internal/model"
	"github.com/hederw/nfs-extrator/internal/pdf"
)

const quotaExceededMessage = "Limite diário excedido."

// Planner expands PDF files into per-page extraction tasks.
type Planner struct {
	renderer *pdf.Renderer
}

func NewPlanner(renderer *pdf.Renderer) *Planner {
	return &Planner{renderer: renderer}
}

// Plan builds the task list for the given files in a stable order. In
// first-page mode each file yields one task; in all-pages mode one per page.
// When the page count cannot be read the file is planned as a single page so
// the failure surfaces on its record during the run instead of aborting the
// whole batch.
func (p *Planner) Plan(ctx context.Context, paths []string, mode model.PageMode) []model.Task {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	var tasks []model.Task
	for _, path := range sorted {
		name := filepath.Base(path)

		pages, err := p.renderer.PageCount(ctx, path)
		if err != nil || pages < 1 {
			if err != nil {
				zap.L().Warn("extract: page count failed, planning single page",
					zap.String("file", name),
					zap.Error(err),
				)
			}
			pages = 1
		}

		if mode == model.AllPages {
			for page := 1; page <= pages; page++ {
				tasks = append(tasks, model.NewTask(path, name, page, pages))
			}
			continue
		}
		tasks = append(tasks, model.NewTask(path, name, 1, pages))
	}
	return tasks
}

// Partition splits planned tasks against the remaining daily quota. Tasks
// beyond the allowance are returned as records already failed with the quota
// message, preserving plan order.
func Partition(tasks []model.Task, remaining int) ([]model.Task, []*model.ExtractionRecord) {
	if remaining < 0 {
		remaining = 0
	}
	if len(tasks) <= remaining {
		return tasks, nil
	}

	var skipped []*model.ExtractionRecord
	for _, t := range tasks[remaining:] {
		rec := model.NewRecord(t)
		rec.MarkError(quotaExceededMessage)
		skipped = append(skipped, rec)
	}
	return tasks[:remaining], skipped
}
