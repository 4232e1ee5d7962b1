package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/sergeii/crypto1recover/internal/core/entities/job"
	"github.com/sergeii/crypto1recover/pkg/crypto1/search"
	"github.com/sergeii/crypto1recover/pkg/slice"
)

var ErrTooManySeeds = errors.New("too many seeds")

type SeedRange struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"   validate:"gtefield=From"`
}

type Pass struct {
	Seeds       []uint64   `json:"seeds"`
	SeedRange   *SeedRange `json:"seed_range"`
	Observation string     `json:"observation" validate:"required,bits"`
}

type NewJob struct {
	Label      string `json:"label"      validate:"max=64"`
	Passes     []Pass `json:"passes"     validate:"required,min=1,dive"`
	Exhaustive bool   `json:"exhaustive"`
}

// ToDomain expands the seed ranges of the passes.
// The expansion is refused early when a pass would carry more than maxSeeds seeds.
func (nj NewJob) ToDomain(maxSeeds int) ([]search.Pass, error) {
	passes := make([]search.Pass, 0, len(nj.Passes))
	for i, p := range nj.Passes {
		pass, err := p.toDomain(maxSeeds)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", i, err)
		}
		passes = append(passes, pass)
	}
	return passes, nil
}

func (p Pass) toDomain(maxSeeds int) (search.Pass, error) {
	obs, err := search.ParseObservation(p.Observation)
	if err != nil {
		return search.Pass{}, err
	}

	seeds := p.Seeds
	if p.SeedRange != nil {
		if p.SeedRange.To < p.SeedRange.From {
			return search.Pass{}, search.ErrInvalidSeedRange
		}
		// the range alone may not fit in memory, so the limit is checked before expanding it
		span := p.SeedRange.To - p.SeedRange.From
		if maxSeeds > 0 && span >= uint64(maxSeeds)-uint64(min(len(p.Seeds), maxSeeds)) {
			return search.Pass{}, fmt.Errorf("%w: more than %d", ErrTooManySeeds, maxSeeds)
		}
		expanded, err := search.SeedRange(p.SeedRange.From, p.SeedRange.To)
		if err != nil {
			return search.Pass{}, err
		}
		seeds = append(append(make([]uint64, 0, len(p.Seeds)+len(expanded)), p.Seeds...), expanded...)
	}

	return search.Pass{Seeds: seeds, Observation: obs}, nil
}

type Job struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Status     string     `json:"status"`
	Exhaustive bool       `json:"exhaustive"`
	Passes     int        `json:"passes"`
	Rounds     int        `json:"rounds"`
	Candidates []string   `json:"candidates"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

func NewJobFromDomain(j job.Job) Job {
	return Job{
		ID:         j.ID,
		Label:      j.Label,
		Status:     j.Status.String(),
		Exhaustive: j.Exhaustive,
		Passes:     len(j.Passes),
		Rounds:     j.Rounds(),
		Candidates: formatStates(j.Candidates),
		Error:      j.Error,
		CreatedAt:  j.CreatedAt,
		StartedAt:  optionalTime(j.StartedAt),
		FinishedAt: optionalTime(j.FinishedAt),
	}
}

type Recovery struct {
	Outcome    string   `json:"outcome"`
	Summary    string   `json:"summary"`
	Candidates []string `json:"candidates"`
	Survivors  []int    `json:"survivors"`
	Elapsed    float64  `json:"elapsed"`
}

func NewRecovery(outcome search.Outcome, survivors []int, elapsed time.Duration) Recovery {
	return Recovery{
		Outcome:    outcome.Kind.String(),
		Summary:    outcome.String(),
		Candidates: formatStates(outcome.Candidates),
		Survivors:  survivors,
		Elapsed:    elapsed.Seconds(),
	}
}

func formatStates(states []uint64) []string {
	return slice.Map(states, func(state uint64) string {
		return fmt.Sprintf("%#x", state)
	})
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
