package results

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"assessment-system/internal/models"
	"assessment-system/internal/recommend"
)

// writeTimeout bounds the status write that follows generation, which runs
// on a fresh context because the generation context may already be expired.
const writeTimeout = 10 * time.Second

// ResultWriter persists the outcome of a recommendation task.
type ResultWriter interface {
	SetRecommendations(ctx context.Context, id string, text *string, status string) error
}

// Generator produces recommendation text for a scored result.
type Generator interface {
	Generate(ctx context.Context, in recommend.Input) (string, error)
}

// Tasks runs recommendation generation in the background. Each scheduled task
// moves its result document from pending to done or failed; a generation
// error or timeout never surfaces to the request that scheduled it.
type Tasks struct {
	store   ResultWriter
	gen     Generator
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewTasks(store ResultWriter, gen Generator, timeout time.Duration, log *zap.Logger) *Tasks {
	return &Tasks{store: store, gen: gen, timeout: timeout, log: log}
}

func (t *Tasks) Schedule(resultID string, in recommend.Input) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.run(resultID, in)
	}()
}

func (t *Tasks) run(resultID string, in recommend.Input) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	text, err := t.gen.Generate(ctx, in)

	writeCtx, writeCancel := context.WithTimeout(context.Background(), writeTimeout)
	defer writeCancel()

	if err != nil {
		t.log.Warn("recommendation generation failed",
			zap.String("result_id", resultID), zap.Error(err))
		if err := t.store.SetRecommendations(writeCtx, resultID, nil, models.RecommendationFailed); err != nil {
			t.log.Error("failed to mark recommendations failed",
				zap.String("result_id", resultID), zap.Error(err))
		}
		return
	}

	if err := t.store.SetRecommendations(writeCtx, resultID, &text, models.RecommendationDone); err != nil {
		t.log.Error("failed to save recommendations",
			zap.String("result_id", resultID), zap.Error(err))
		return
	}
	t.log.Info("recommendations saved",
		zap.String("result_id", resultID), zap.Int("length", len(text)))
}

// Wait blocks until all scheduled tasks finish, used during shutdown.
func (t *Tasks) Wait() {
	t.wg.Wait()
}
