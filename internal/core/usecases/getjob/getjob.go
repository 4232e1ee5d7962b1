package getjob

import (
	"context"
	"errors"

	"github.com/sergeii/crypto1recover/internal/core/entities/job"
	"github.com/sergeii/crypto1recover/internal/core/repositories"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrUnableToObtainJob = errors.New("unable to obtain job from repository")
)

type UseCase struct {
	jobRepo repositories.JobRepository
}

func New(jobRepo repositories.JobRepository) UseCase {
	return UseCase{
		jobRepo: jobRepo,
	}
}

func (uc UseCase) Execute(ctx context.Context, id string) (job.Job, error) {
	j, err := uc.jobRepo.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrJobNotFound):
			return job.Blank, ErrJobNotFound
		default:
			return job.Blank, ErrUnableToObtainJob
		}
	}
	return j, nil
}
