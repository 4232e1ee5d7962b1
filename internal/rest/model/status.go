package model

import (
	"github.com/sergeii/crypto1recover/internal/settings"
)

// Limits mirrors the request limits of the running instance. Zero means unlimited.
type Limits struct {
	MaxSeeds  int `json:"max_seeds"`
	MaxPasses int `json:"max_passes"`
	MaxRounds int `json:"max_rounds"`
}

type Status struct {
	BuildTime    string `json:"BuildTime"`
	BuildCommit  string `json:"BuildCommit"`
	BuildVersion string `json:"BuildVersion"`
	Limits       Limits `json:"Limits"`
}

func NewLimits(s settings.Settings) Limits {
	return Limits{
		MaxSeeds:  s.MaxSeeds,
		MaxPasses: s.MaxPasses,
		MaxRounds: s.MaxRounds,
	}
}
