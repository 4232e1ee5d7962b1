package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/build"
	"github.com/sergeii/crypto1recover/internal/rest/model"
	"github.com/sergeii/crypto1recover/internal/testutils"
)

func TestAPI_Status_OK(t *testing.T) {
	var status model.Status

	ts, cancel := testutils.PrepareTestServer(t)
	defer cancel()

	build.Commit = "foobar"
	build.Version = "v1.0.0"
	build.Time = "2024-04-24T11:22:33T"

	resp := testutils.DoTestRequest(
		ts, http.MethodGet, "/status", nil,
		testutils.MustBindJSON(&status),
	)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.Equal(t, model.Status{
		BuildCommit:  "foobar",
		BuildTime:    "2024-04-24T11:22:33T",
		BuildVersion: "v1.0.0",
		Limits: model.Limits{
			MaxSeeds:  1 << 20,
			MaxPasses: 4,
			MaxRounds: 44,
		},
	}, status)
}
