package cleanjobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sergeii/crypto1recover/internal/core/repositories"
)

type UseCase struct {
	jobRepo repositories.JobRepository
	logger  *zerolog.Logger
}

func New(
	jobRepo repositories.JobRepository,
	logger *zerolog.Logger,
) UseCase {
	return UseCase{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

type Response struct {
	Count  int
	Errors int
}

var NoResponse = Response{}

// Execute removes jobs finished before until. Pending and running jobs are never removed.
func (uc UseCase) Execute(ctx context.Context, until time.Time) (Response, error) {
	var before, after, removed int
	var err error

	if before, err = uc.jobRepo.Count(ctx); err != nil {
		return NoResponse, err
	}

	uc.logger.Info().
		Stringer("until", until).Int("jobs", before).
		Msg("Starting to clean finished jobs")

	if removed, err = uc.jobRepo.RemoveFinishedBefore(ctx, until); err != nil {
		uc.logger.Error().
			Err(err).Stringer("until", until).
			Msg("Failed to remove finished jobs")
		return Response{Errors: 1}, err
	}

	if after, err = uc.jobRepo.Count(ctx); err != nil {
		return Response{Count: removed}, err
	}

	uc.logger.Info().
		Stringer("until", until).
		Int("removed", removed).Int("before", before).Int("after", after).
		Msg("Finished cleaning finished jobs")

	return Response{Count: removed}, nil
}
