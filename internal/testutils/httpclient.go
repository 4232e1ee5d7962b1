package testutils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
)

type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// TestRequestOpt is applied twice per request:
// once with the outgoing request and once with the received response.
type TestRequestOpt func(*http.Request, *http.Response)

func WithHeader(key, value string) TestRequestOpt {
	return func(req *http.Request, _ *http.Response) {
		if req != nil {
			req.Header.Set(key, value)
		}
	}
}

func MustBindJSON(v any) TestRequestOpt {
	return func(_ *http.Request, resp *http.Response) {
		if resp == nil {
			return
		}
		MustNoErr(json.Unmarshal(mustReadBody(resp), v))
	}
}

func MustHaveNoBody() TestRequestOpt {
	return func(_ *http.Request, resp *http.Response) {
		if resp == nil {
			return
		}
		if body := mustReadBody(resp); len(body) > 0 {
			panic("must have no body, got: " + string(body))
		}
	}
}

func PostJSON(ts *httptest.Server, path, payload string, opts ...TestRequestOpt) Response {
	opts = append([]TestRequestOpt{WithHeader("Content-Type", "application/json")}, opts...)
	return DoTestRequest(ts, http.MethodPost, path, strings.NewReader(payload), opts...)
}

func DoTestRequest(
	ts *httptest.Server, method, path string, body io.Reader, opts ...TestRequestOpt,
) Response {
	req := Must(http.NewRequestWithContext(context.Background(), method, ts.URL+path, body))
	for _, opt := range opts {
		opt(req, nil)
	}

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp := Must(client.Do(req))
	defer resp.Body.Close()

	for _, opt := range opts {
		opt(nil, resp)
	}

	return Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(mustReadBody(resp)),
	}
}

func mustReadBody(resp *http.Response) []byte {
	return Must(io.ReadAll(resp.Body))
}
