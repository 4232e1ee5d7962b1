package repositories

import (
	"context"
	"time"

	"github.com/sergeii/crypto1recover/internal/core/entities/job"
)

type JobRepository interface {
	// Add stores the job and puts it in the queue of pending jobs
	Add(context.Context, job.Job) error
	Get(context.Context, string) (job.Job, error)
	Update(context.Context, job.Job) error
	// PopMany takes up to n jobs off the pending queue in submission order
	PopMany(context.Context, int) ([]job.Job, error)
	// Requeue returns a popped job that was never started to its place in the queue
	Requeue(context.Context, job.Job) error
	Count(context.Context) (int, error)
	CountPending(context.Context) (int, error)
	RemoveFinishedBefore(context.Context, time.Time) (int, error)
}
