package entities

import (
	"fmt"
	"math/rand"
	"strings"
)

// Policy is a ghost's fixed personality.
type Policy int

const (
	PolicyAggressive Policy = iota
	PolicyAmbush
	PolicyRandom
	PolicyScatter
	policyCount
)

var policyNames = [policyCount]string{
	PolicyAggressive: "aggressive",
	PolicyAmbush:     "ambush",
	PolicyRandom:     "random",
	PolicyScatter:    "scatter",
}

func (p Policy) String() string {
	if p < 0 || p >= policyCount {
		return fmt.Sprintf("policy(%d)", int(p))
	}
	return policyNames[p]
}

func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range policyNames {
		if name == s {
			return Policy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ghost policy %q", s)
}

func (p Policy) MarshalText() ([]byte, error) {
	if p < 0 || p >= policyCount {
		return nil, fmt.Errorf("invalid ghost policy %d", int(p))
	}
	return []byte(policyNames[p]), nil
}

func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// candidate is an open neighbor direction scored by how much it closes the
// distance to the player along its axis.
type candidate struct {
	dir   Direction
	score int
}

type chooser func(cands []candidate, rng *rand.Rand, chaseRate float64) Direction

// choosers is indexed by Policy; every policy must have an entry.
var choosers = [policyCount]chooser{
	PolicyAggressive: func(c []candidate, _ *rand.Rand, _ float64) Direction {
		return highest(c)
	},
	PolicyAmbush: func(c []candidate, rng *rand.Rand, chaseRate float64) Direction {
		if rng.Float64() < chaseRate {
			return highest(c)
		}
		return c[rng.Intn(len(c))].dir
	},
	PolicyRandom: func(c []candidate, rng *rand.Rand, _ float64) Direction {
		return c[rng.Intn(len(c))].dir
	},
	PolicyScatter: func(c []candidate, _ *rand.Rand, _ float64) Direction {
		return lowest(c)
	},
}

// highest and lowest keep the first candidate on ties, so evaluation order
// (up, down, left, right) breaks them.
func highest(c []candidate) Direction {
	best := c[0]
	for _, x := range c[1:] {
		if x.score > best.score {
			best = x
		}
	}
	return best.dir
}

func lowest(c []candidate) Direction {
	best := c[0]
	for _, x := range c[1:] {
		if x.score < best.score {
			best = x
		}
	}
	return best.dir
}
