package logutils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sergeii/crypto1recover/pkg/logutils"
)

func TestShortCallerFormatter(t *testing.T) {
	tests := []struct {
		file string
		line int
		want string
	}{
		{"/go/src/github.com/sergeii/crypto1recover/cmd/crypto1recover/main.go", 42, "main.go:42"},
		{"search.go", 7, "search.go:7"},
		{"pkg/crypto1/extend/extend.go", 100, "extend.go:100"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, logutils.ShortCallerFormatter(0, tt.file, tt.line))
		})
	}
}
