package pool

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/metrics"
)

// Rejudger finishes one pending submission. skipped reports a duplicate request.
type Rejudger interface {
	Execute(ctx context.Context, msg *domain.RejudgeMessage) (skipped bool, err error)
}

// WorkerPool manages a fixed-size pool of goroutines that process rejudge jobs.
type WorkerPool struct {
	size     int
	jobs     <-chan *domain.RejudgeJob
	rejudger Rejudger
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new fixed-size worker pool.
func NewWorkerPool(size int, jobs <-chan *domain.RejudgeJob, rejudger Rejudger, logger *zap.Logger) *WorkerPool {
	return &WorkerPool{
		size:     size,
		jobs:     jobs,
		rejudger: rejudger,
		logger:   logger,
	}
}

// Start launches all worker goroutines. Call Stop to wait for them to finish.
func (p *WorkerPool) Start(ctx context.Context) {
	p.logger.Info("Starting worker pool", zap.Int("pool_size", p.size))

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop waits for all workers to finish their current jobs and exit.
func (p *WorkerPool) Stop() {
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	p.logger.Debug("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Worker shutting down", zap.Int("worker_id", id))
			return
		case job, ok := <-p.jobs:
			if !ok {
				p.logger.Debug("Job channel closed", zap.Int("worker_id", id))
				return
			}
			p.process(ctx, id, job)
		}
	}
}

func (p *WorkerPool) process(ctx context.Context, id int, job *domain.RejudgeJob) {
	submissionID := job.Message.SubmissionID.String()
	log := p.logger.With(zap.Int("worker_id", id), zap.String("submission_id", submissionID))

	metrics.WorkersActive.Inc()
	defer metrics.WorkersActive.Dec()

	// In-flight rejudges outlive shutdown; the judging budget bounds them.
	skipped, err := p.run(context.WithoutCancel(ctx), job.Message)
	switch {
	case err != nil:
		log.Error("Rejudge failed", zap.Error(err))
		metrics.RejudgeTotal.WithLabelValues("failed").Inc()
		// Without requeue: failures go to the DLQ for an operator to re-drive.
		if nackErr := job.Nack(false); nackErr != nil {
			log.Error("Failed to NACK message", zap.Error(nackErr))
		}
	case skipped:
		log.Debug("Duplicate rejudge skipped")
		metrics.RejudgeTotal.WithLabelValues("skipped").Inc()
		if ackErr := job.Ack(); ackErr != nil {
			log.Error("Failed to ACK duplicate message", zap.Error(ackErr))
		}
	default:
		metrics.RejudgeTotal.WithLabelValues("judged").Inc()
		if ackErr := job.Ack(); ackErr != nil {
			log.Error("Failed to ACK message after rejudge", zap.Error(ackErr))
		}
	}
}

// run converts a panic in the rejudge path into an error so the worker survives.
func (p *WorkerPool) run(ctx context.Context, msg *domain.RejudgeMessage) (skipped bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.rejudger.Execute(ctx, msg)
}
