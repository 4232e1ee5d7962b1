package solve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sergeii/crypto1recover/internal/core/usecases/recoverstate"
	"github.com/sergeii/crypto1recover/pkg/crypto1/search"
)

var (
	ErrMissingSeeds    = errors.New("pass has no seeds")
	ErrUnexpectedSeeds = errors.New("seeds are not accepted in exhaustive mode")
	ErrInvalidSeed     = errors.New("invalid seed")
)

// ParsePasses decodes pass arguments of the form SEEDS:BITS,
// where SEEDS is a comma separated list of states and FROM..TO ranges.
// In exhaustive mode a pass is given by its BITS alone.
func ParsePasses(args []string, exhaustive bool, maxSeeds int) ([]search.Pass, error) {
	passes := make([]search.Pass, 0, len(args))
	for i, arg := range args {
		pass, err := parsePass(arg, exhaustive, maxSeeds)
		if err != nil {
			return nil, fmt.Errorf("pass %d (%s): %w", i, arg, err)
		}
		passes = append(passes, pass)
	}
	return passes, nil
}

func parsePass(arg string, exhaustive bool, maxSeeds int) (search.Pass, error) {
	seedsArg, bits, found := strings.Cut(arg, ":")
	if !found {
		bits, seedsArg = seedsArg, ""
	}

	obs, err := search.ParseObservation(bits)
	if err != nil {
		return search.Pass{}, err
	}

	if exhaustive {
		if seedsArg != "" {
			return search.Pass{}, ErrUnexpectedSeeds
		}
		return search.Pass{Observation: obs}, nil
	}

	if seedsArg == "" {
		return search.Pass{}, ErrMissingSeeds
	}
	seeds, err := parseSeeds(seedsArg, maxSeeds)
	if err != nil {
		return search.Pass{}, err
	}

	return search.Pass{Seeds: seeds, Observation: obs}, nil
}

func parseSeeds(arg string, maxSeeds int) ([]uint64, error) {
	var seeds []uint64
	for item := range strings.SplitSeq(arg, ",") {
		item = strings.TrimSpace(item)
		fromArg, toArg, isRange := strings.Cut(item, "..")
		from, err := parseSeed(fromArg)
		if err != nil {
			return nil, err
		}
		if !isRange {
			seeds = append(seeds, from)
		} else {
			to, toErr := parseSeed(toArg)
			if toErr != nil {
				return nil, toErr
			}
			if to >= from && maxSeeds > 0 && to-from >= uint64(max(maxSeeds-len(seeds), 0)) {
				return nil, fmt.Errorf("%w: more than %d", recoverstate.ErrTooManySeeds, maxSeeds)
			}
			expanded, rangeErr := search.SeedRange(from, to)
			if rangeErr != nil {
				return nil, rangeErr
			}
			seeds = append(seeds, expanded...)
		}
		if maxSeeds > 0 && len(seeds) > maxSeeds {
			return nil, fmt.Errorf("%w: more than %d", recoverstate.ErrTooManySeeds, maxSeeds)
		}
	}
	return seeds, nil
}

func parseSeed(value string) (uint64, error) {
	seed, err := strconv.ParseUint(strings.TrimSpace(value), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeed, value)
	}
	return seed, nil
}
