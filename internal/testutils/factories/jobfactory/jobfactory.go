package jobfactory

import (
	"time"

	"github.com/sergeii/crypto1recover/internal/core/entities/job"
	"github.com/sergeii/crypto1recover/pkg/crypto1/search"
)

type BuildParams struct {
	Label        string
	Seeds        []uint64
	Observations []string
	Exhaustive   bool
	CreatedAt    time.Time
}

type BuildOption func(*BuildParams)

func WithLabel(label string) BuildOption {
	return func(p *BuildParams) {
		p.Label = label
	}
}

func WithSeeds(seeds ...uint64) BuildOption {
	return func(p *BuildParams) {
		p.Seeds = seeds
	}
}

func WithObservations(observations ...string) BuildOption {
	return func(p *BuildParams) {
		p.Observations = observations
	}
}

func WithExhaustiveSearch() BuildOption {
	return func(p *BuildParams) {
		p.Exhaustive = true
		p.Seeds = nil
	}
}

func WithCreatedAt(createdAt time.Time) BuildOption {
	return func(p *BuildParams) {
		p.CreatedAt = createdAt
	}
}

func Build(opts ...BuildOption) job.Job {
	params := BuildParams{
		Label:        "test",
		Seeds:        []uint64{0x5A3C1},
		Observations: []string{"0010000111111010"},
		CreatedAt:    time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	}

	for _, opt := range opts {
		opt(&params)
	}

	// every observation is matched against the same seeds
	passes := make([]search.Pass, 0, len(params.Observations))
	for _, obs := range params.Observations {
		passes = append(passes, search.Pass{
			Seeds:       params.Seeds,
			Observation: search.MustParseObservation(obs),
		})
	}

	return job.New(params.Label, passes, params.Exhaustive, params.CreatedAt)
}
