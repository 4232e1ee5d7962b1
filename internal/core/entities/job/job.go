package job

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/sergeii/crypto1recover/pkg/crypto1/search"
)

type Status int

const (
	Pending Status = iota
	Running
	Solved
	Ambiguous
	Inconsistent
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Solved:
		return "solved"
	case Ambiguous:
		return "ambiguous"
	case Inconsistent:
		return "inconsistent"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("%d", s)
}

func (s Status) IsFinal() bool {
	return s >= Solved
}

func StatusFromOutcome(outcome search.Outcome) Status {
	switch outcome.Kind {
	case search.Unique:
		return Solved
	case search.Ambiguous:
		return Ambiguous
	default:
		return Inconsistent
	}
}

const defaultLabel = "job"

type Job struct {
	ID         string        `json:"id"`
	Label      string        `json:"label"`
	Passes     []search.Pass `json:"passes"`
	Exhaustive bool          `json:"exhaustive"`
	Status     Status        `json:"status"`
	Candidates []uint64      `json:"candidates,omitempty"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

var Blank Job // nolint: gochecknoglobals

// New creates a pending job. Timestamps of a job are kept in UTC.
// With exhaustive set, the seeds of the passes are ignored
// and every pass starts from the filter window matching the first bit of its observation.
func New(label string, passes []search.Pass, exhaustive bool, now time.Time) Job {
	label = slug.Make(label)
	if label == "" {
		label = defaultLabel
	}
	return Job{
		ID:         uuid.NewString(),
		Label:      label,
		Passes:     passes,
		Exhaustive: exhaustive,
		Status:     Pending,
		CreatedAt:  now.UTC(),
	}
}

func (j *Job) Start(now time.Time) {
	j.Status = Running
	j.StartedAt = now.UTC()
}

func (j *Job) Finish(outcome search.Outcome, now time.Time) {
	j.Status = StatusFromOutcome(outcome)
	j.Candidates = outcome.Candidates
	j.Error = ""
	j.FinishedAt = now.UTC()
}

func (j *Job) Fail(err error, now time.Time) {
	j.Status = Failed
	j.Candidates = nil
	j.Error = err.Error()
	j.FinishedAt = now.UTC()
}

func (j Job) IsFinished() bool {
	return j.Status.IsFinal()
}

func (j Job) Rounds() int {
	rounds := 0
	for _, pass := range j.Passes {
		rounds = max(rounds, len(pass.Observation))
	}
	return rounds
}

func (j Job) String() string {
	return fmt.Sprintf("%s:%s", j.Label, j.ID)
}
