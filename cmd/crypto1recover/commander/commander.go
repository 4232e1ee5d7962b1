package commander

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/sergeii/crypto1recover/cmd/crypto1recover/build"
)

type Globals struct {
	LogLevel  string `default:"info"    enum:"debug,info,warn,error"    help:"Sets the minimum severity level for log messages"` // nolint:lll
	LogOutput string `default:"console" enum:"console,stdout,stderr,json" help:"Specifies the format for log output"`             // nolint:lll

	RedisURL string `default:"redis://localhost:6379" help:"Defines the Redis URL connection"`

	ExporterHTTPListenAddress   string        `default:":9000" help:"Sets the address where the Prometheus exporter server listens for requests"`            // nolint:lll
	ExporterHTTPReadTimeout     time.Duration `default:"5s"    help:"Sets the maximum duration to read the request body before timing out"`                  // nolint:lll
	ExporterHTTPWriteTimeout    time.Duration `default:"5s"    help:"Sets the maximum duration to write a response before timing out"`                       // nolint:lll
	ExporterHTTPShutdownTimeout time.Duration `default:"10s"   help:"The amount of time the server will wait gracefully closing connections before exiting"` // nolint:lll

	SearchChunkSize int `default:"65536" help:"Sets the candidate population size above which a search round is split into concurrent chunks"` // nolint:lll
	SearchWorkers   int `default:"0"     help:"Limits the number of chunks of a search round processed at the same time (0 - number of CPUs)"` // nolint:lll

	MaxSeeds  int `default:"1048576" help:"Limits the number of seed candidates a single pass may start from (0 - unlimited)"` // nolint:lll
	MaxPasses int `default:"8"       help:"Limits the number of independent passes of a recovery request (0 - unlimited)"`     // nolint:lll
	MaxRounds int `default:"44"      help:"Limits the number of observed bits of a single pass (0 - unlimited)"`               // nolint:lll
}

type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	version := fmt.Sprintf("Version: %s (%s) built at %s", build.Version, build.Commit, build.Time)
	fmt.Println(version) // nolint: forbidigo
	os.Exit(0)
	return nil
}

type RunCmd struct {
	kong.Plugins
}

type CLI struct {
	Globals

	Version VersionCmd `cmd:"" help:"Display the app version and exit"`
	Run     RunCmd     `cmd:""`
}
