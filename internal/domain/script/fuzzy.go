package script

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/forPelevin/mdlv/internal/domain/timeline"
)

// Fuzzy jitters the boundaries between filters so transitions do not land on
// exactly the frames the user marked. Starts only move earlier and ends only
// move later; cuts stay frame exact.
type Fuzzy struct {
	Regular
	mean   float64
	stddev float64
	rng    *rand.Rand
}

// NewRand returns a deterministic source for NewFuzzy.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewFuzzy builds a generator whose boundary shift, as a fraction of the
// filter's range length, is drawn from N((fuzziness-1)/2, mean/2).
// A fuzziness of 1 produces the same script as Regular.
func NewFuzzy(l *timeline.List, g Geometry, fuzziness float64, rng *rand.Rand) (*Fuzzy, error) {
	if fuzziness < 1 || math.IsNaN(fuzziness) || math.IsInf(fuzziness, 0) {
		return nil, fmt.Errorf("fuzziness must be >= 1, got %v", fuzziness)
	}
	if rng == nil {
		return nil, errors.New("fuzzy generator needs a random source")
	}
	mean := (fuzziness - 1) / 2
	return &Fuzzy{
		Regular: Regular{list: l, geom: g},
		mean:    mean,
		stddev:  mean / 2,
		rng:     rng,
	}, nil
}

func (g *Fuzzy) Generate(w io.Writer) (Result, error) {
	return compile(w, g.list, g.geom, g.span)
}

func (g *Fuzzy) sample() float64 {
	return g.mean + g.stddev*g.rng.NormFloat64()
}

func (g *Fuzzy) shift(length int) int {
	return int(math.Round(g.sample() * float64(length)))
}

func (g *Fuzzy) span(entries []timeline.Entry, i int) span {
	s := exactSpan(entries, i)
	floor := entries[0].Start - 1
	length := rangeLength(entries, i)

	s.start = min(max(s.start-g.shift(length), floor), s.start)
	if s.bounded {
		s.end = max(s.end+g.shift(length), s.end)
	}
	return s
}

// rangeLength is the nominal length of entry i. The open-ended last entry
// borrows the length of the range before it.
func rangeLength(entries []timeline.Entry, i int) int {
	switch {
	case i+1 < len(entries):
		return entries[i+1].Start - entries[i].Start
	case i > 0:
		return entries[i].Start - entries[i-1].Start
	default:
		return 0
	}
}
