package settings

type Settings struct {
	SearchChunkSize int
	SearchWorkers   int

	MaxSeeds  int
	MaxPasses int
	MaxRounds int
}
