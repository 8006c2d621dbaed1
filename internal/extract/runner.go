package extract

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hederw/nfs-extrator/internal/model"
	"github.com/hederw/nfs-extrator/internal/pdf"
	"github.com/hederw/nfs-extrator/internal/quota"
	"github.com/hederw/nfs-extrator/pkg/gemini"
)

const (
	passwordProtectedMessage = "Arquivo protegido por senha."
	canceledMessage          = "Operação cancelada."
)

// Runner executes planned tasks one at a time against the extraction model.
type Runner struct {
	renderer *pdf.Renderer
	client   gemini.Client
	quota    *quota.Tracker
	limiter  *rate.Limiter
}

// NewRunner creates a runner. requestsPerMinute caps the model call rate;
// values below 1 fall back to 10.
func NewRunner(renderer *pdf.Renderer, client gemini.Client, tracker *quota.Tracker, requestsPerMinute int) *Runner {
	if requestsPerMinute < 1 {
		requestsPerMinute = 10
	}
	return &Runner{
		renderer: renderer,
		client:   client,
		quota:    tracker,
		limiter:  rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

// RunOptions selects the extraction variant for a run.
type RunOptions struct {
	Detailed     bool
	LayoutPrompt string

	// OnProgress, when set, is called once per task with its finished record,
	// in plan order.
	OnProgress func(*model.ExtractionRecord)
}

// Run processes tasks sequentially and returns one terminal record per task,
// in order. A cancelled context fails the remaining tasks instead of dropping
// them, so every planned task still has a record.
func (r *Runner) Run(ctx context.Context, tasks []model.Task, opts RunOptions) []*model.ExtractionRecord {
	records := make([]*model.ExtractionRecord, 0, len(tasks))
	for _, task := range tasks {
		rec := model.NewRecord(task)
		if ctx.Err() != nil {
			rec.MarkError(canceledMessage)
		} else {
			rec.MarkProcessing()
			r.process(ctx, task, rec, opts)
		}

		records = append(records, rec)
		if opts.OnProgress != nil {
			opts.OnProgress(rec)
		}
	}
	return records
}

func (r *Runner) process(ctx context.Context, task model.Task, rec *model.ExtractionRecord, opts RunOptions) {
	png, err := r.renderer.RenderPage(ctx, task.FilePath, task.Page)
	if err != nil {
		if eris.Is(err, pdf.ErrPasswordRequired) {
			rec.MarkError(passwordProtectedMessage)
		} else {
			rec.MarkError(eris.Cause(err).Error())
		}
		zap.L().Warn("extract: render failed",
			zap.String("file", task.FileName),
			zap.Int("page", task.Page),
			zap.Error(err),
		)
		return
	}

	if err := r.limiter.Wait(ctx); err != nil {
		rec.MarkError(canceledMessage)
		return
	}

	if opts.Detailed {
		data, err := r.client.ExtractDetailedInvoice(ctx, png)
		if err != nil {
			rec.MarkError(eris.Cause(err).Error())
			return
		}
		r.countUsage(ctx, task)
		rec.MarkDetailedSuccess(data)
		return
	}

	data, err := r.client.ExtractInvoice(ctx, png, opts.LayoutPrompt)
	if err != nil {
		rec.MarkError(eris.Cause(err).Error())
		return
	}
	r.countUsage(ctx, task)
	rec.MarkSuccess(data)
}

// countUsage bumps the daily counter after a successful model call. A
// persistence failure here must not fail the extraction itself.
func (r *Runner) countUsage(ctx context.Context, task model.Task) {
	if r.quota == nil {
		return
	}
	if _, err := r.quota.Increment(ctx); err != nil {
		zap.L().Warn("extract: quota increment failed",
			zap.String("file", task.FileName),
			zap.Error(err),
		)
	}
}
