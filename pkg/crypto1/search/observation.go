package search

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidObservation = errors.New("observation must consist of 0 and 1 digits")

// Observation is an ordered sequence of target keystream bits, one per round.
type Observation []uint8

// ParseObservation decodes a string of binary digits, such as "0110", into an Observation.
// Whitespace and underscores between digits are ignored.
func ParseObservation(value string) (Observation, error) {
	obs := make(Observation, 0, len(value))
	for i, r := range value {
		switch r {
		case '0', '1':
			obs = append(obs, uint8(r-'0'))
		case ' ', '_', '\t':
			continue
		default:
			return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidObservation, r, i)
		}
	}
	return obs, nil
}

func MustParseObservation(value string) Observation {
	obs, err := ParseObservation(value)
	if err != nil {
		panic(err)
	}
	return obs
}

func (o Observation) String() string {
	var b strings.Builder
	b.Grow(len(o))
	for _, bit := range o {
		b.WriteByte('0' + bit)
	}
	return b.String()
}

func (o Observation) MarshalText() ([]byte, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return []byte(o.String()), nil
}

func (o *Observation) UnmarshalText(text []byte) error {
	parsed, err := ParseObservation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Validate reports whether every element of the sequence is a single bit.
func (o Observation) Validate() error {
	for i, bit := range o {
		if bit > 1 {
			return fmt.Errorf("%w: got %d at position %d", ErrInvalidObservation, bit, i)
		}
	}
	return nil
}
