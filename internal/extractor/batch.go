package extractor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/avkuzmin/bizextract/internal/domain"
)

// Failure - один упавший документ из пачки.
type Failure struct {
	Ref string
	Err error
}

// Result - итог пакетной обработки.
type Result struct {
	Enterprises []domain.Enterprise
	Failures    []Failure
	StartedAt   time.Time
	FinishedAt  time.Time
}

func (r *Result) Total() int {
	return len(r.Enterprises) + len(r.Failures)
}

func (r *Result) SuccessRate() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return float64(len(r.Enterprises)) / float64(total)
}

func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ExtractBatch обрабатывает пачку документов параллельно. Падение
// одного документа не роняет остальные, пока включен ContinueOnError;
// иначе первая ошибка отменяет всю пачку.
func (e *Extractor) ExtractBatch(ctx context.Context, refs []string) (*Result, error) {
	res := &Result{StartedAt: time.Now()}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			ent, err := e.ExtractOne(gctx, ref)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failures = append(res.Failures, Failure{Ref: ref, Err: err})
				e.logger.Error("документ не обработан",
					zap.String("ref", ref),
					zap.Error(err))
				if e.opts.ContinueOnError {
					return nil
				}
				return err
			}
			res.Enterprises = append(res.Enterprises, *ent)
			return nil
		})
	}

	err := g.Wait()
	res.FinishedAt = time.Now()

	e.logger.Info("пачка обработана",
		zap.Int("total", res.Total()),
		zap.Int("succeeded", len(res.Enterprises)),
		zap.Int("failed", len(res.Failures)),
		zap.Float64("success_rate", res.SuccessRate()),
		zap.Duration("took", res.Duration()))

	if err != nil {
		return res, err
	}
	return res, nil
}
