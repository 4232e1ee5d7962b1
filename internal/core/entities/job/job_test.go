package job_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergeii/crypto1recover/internal/core/entities/job"
	"github.com/sergeii/crypto1recover/pkg/crypto1/search"
)

func TestNew(t *testing.T) {
	now := time.Now()
	passes := []search.Pass{
		{Seeds: []uint64{1, 2}, Observation: search.Observation{0, 1}},
		{Seeds: []uint64{3}, Observation: search.Observation{1, 1, 0}},
	}

	j := job.New("Tag #42 / Lobby Door", passes, false, now)

	_, err := uuid.Parse(j.ID)
	require.NoError(t, err)
	assert.Equal(t, "tag-42-lobby-door", j.Label)
	assert.Equal(t, passes, j.Passes)
	assert.False(t, j.Exhaustive)
	assert.Equal(t, job.Pending, j.Status)
	assert.Equal(t, now.UTC(), j.CreatedAt)
	assert.True(t, j.StartedAt.IsZero())
	assert.False(t, j.IsFinished())
	assert.Equal(t, 3, j.Rounds())
	assert.Equal(t, "tag-42-lobby-door:"+j.ID, j.String())
}

func TestNew_DefaultLabel(t *testing.T) {
	j := job.New("  ", nil, true, time.Now())
	assert.Equal(t, "job", j.Label)
	other := job.New("", nil, true, time.Now())
	assert.NotEqual(t, j.ID, other.ID)
}

func TestJob_Lifecycle(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name       string
		outcome    search.Outcome
		wantStatus job.Status
	}{
		{"unique", search.Outcome{Kind: search.Unique, Candidates: []uint64{7}}, job.Solved},
		{"ambiguous", search.Outcome{Kind: search.Ambiguous, Candidates: []uint64{7, 8}}, job.Ambiguous},
		{"empty", search.Outcome{Kind: search.Empty, Candidates: []uint64{}}, job.Inconsistent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := job.New("", nil, false, now)
			j.Start(now.Add(time.Second))
			assert.Equal(t, job.Running, j.Status)
			assert.False(t, j.IsFinished())

			j.Finish(tt.outcome, now.Add(time.Minute))
			assert.Equal(t, tt.wantStatus, j.Status)
			assert.Equal(t, tt.outcome.Candidates, j.Candidates)
			assert.True(t, j.IsFinished())
			assert.Equal(t, now.Add(time.Second).UTC(), j.StartedAt)
			assert.Equal(t, now.Add(time.Minute).UTC(), j.FinishedAt)
		})
	}
}

func TestJob_Fail(t *testing.T) {
	now := time.Now()
	j := job.New("", nil, false, now)
	j.Start(now)
	j.Fail(errors.New("round 3: boom"), now)
	assert.Equal(t, job.Failed, j.Status)
	assert.Equal(t, "round 3: boom", j.Error)
	assert.Nil(t, j.Candidates)
	assert.True(t, j.IsFinished())
}

func TestJob_TimestampsInUTC(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	created := time.Date(2024, time.March, 1, 15, 0, 0, 0, zone)

	j := job.New("gate", []search.Pass{
		{Seeds: []uint64{0x5A3C1}, Observation: search.MustParseObservation("0010")},
	}, false, created)
	j.Start(created.Add(time.Second))
	j.Finish(search.Outcome{Kind: search.Unique, Candidates: []uint64{0x5a3c1b}}, created.Add(time.Minute))

	for _, ts := range []time.Time{j.CreatedAt, j.StartedAt, j.FinishedAt} {
		assert.Same(t, time.UTC, ts.Location())
	}
	assert.Equal(t, time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC), j.CreatedAt)

	// a stored job decodes back into an identical value
	encoded, err := json.Marshal(j)
	require.NoError(t, err)
	var decoded job.Job
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, j, decoded)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending", job.Pending.String())
	assert.Equal(t, "running", job.Running.String())
	assert.Equal(t, "solved", job.Solved.String())
	assert.Equal(t, "ambiguous", job.Ambiguous.String())
	assert.Equal(t, "inconsistent", job.Inconsistent.String())
	assert.Equal(t, "failed", job.Failed.String())
	assert.Equal(t, "42", job.Status(42).String())
}
