package efg

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/combin"
)

// PureStrategy assigns one action to every information set of a single
// player: a complete deterministic plan of play. The zero value is not
// usable; obtain strategies from Enumerate or NewPureStrategy.
type PureStrategy struct {
	player   Player
	infoSets []string
	actions  []Action
	index    map[string]int
}

// NewPureStrategy builds a strategy for p from an explicit assignment
// of actions to information sets. choices must name a legal action for
// every information set of p in t.
func NewPureStrategy(t *Tree, p Player, choices map[string]Action) (*PureStrategy, error) {
	infoSets := t.InformationSets(p)
	s := emptyStrategy(p, len(infoSets))
	for i, is := range infoSets {
		a, ok := choices[is.ID]
		if !ok {
			return nil, errors.Wrapf(ErrIncompleteStrategy, "no action for information set %q", is.ID)
		}
		if !containsAction(is.Actions, a) {
			return nil, errors.Errorf("action %q is not available at information set %q", a, is.ID)
		}

		s.infoSets[i] = is.ID
		s.actions[i] = a
		s.index[is.ID] = i
	}

	return &s, nil
}

// Player returns the player the strategy belongs to.
func (s *PureStrategy) Player() Player {
	return s.player
}

// ActionAt returns the action the strategy dictates at the given
// information set.
func (s *PureStrategy) ActionAt(infoSet string) (Action, bool) {
	i, ok := s.index[infoSet]
	if !ok {
		return "", false
	}

	return s.actions[i], true
}

// Map returns the strategy as an information set -> action mapping.
func (s *PureStrategy) Map() map[string]Action {
	m := make(map[string]Action, len(s.infoSets))
	for i, is := range s.infoSets {
		m[is] = s.actions[i]
	}

	return m
}

// String implements fmt.Stringer, e.g. "H0:1 H1:0".
func (s *PureStrategy) String() string {
	if len(s.infoSets) == 0 {
		return "{}"
	}

	parts := make([]string, len(s.infoSets))
	for i, is := range s.infoSets {
		parts[i] = fmt.Sprintf("%s:%s", is, s.actions[i])
	}

	return strings.Join(parts, " ")
}

// MaxEnumerate bounds the number of pure strategies Enumerate will
// materialize. The strategy space grows as the product of branching
// factors; past this bound the normal form is intractable anyway.
const MaxEnumerate = 1 << 20

// Enumerate returns every pure strategy of p in t: the Cartesian
// product of the actions available at each of p's information sets,
// ordered by first discovery with the last information set varying
// fastest. A player with no information sets has exactly one, empty,
// strategy. Strategy spaces larger than MaxEnumerate fail with
// ErrTooManyStrategies.
func Enumerate(t *Tree, p Player) ([]PureStrategy, error) {
	infoSets := t.InformationSets(p)
	if len(infoSets) == 0 {
		return []PureStrategy{emptyStrategy(p, 0)}, nil
	}

	lens := make([]int, len(infoSets))
	total := 1
	for i, is := range infoSets {
		lens[i] = len(is.Actions)
		total *= lens[i]
		if total > MaxEnumerate {
			return nil, errors.Wrapf(ErrTooManyStrategies,
				"%v has more than %d pure strategies over %d information sets",
				p, MaxEnumerate, len(infoSets))
		}
	}

	combos := combin.Cartesian(lens)
	result := make([]PureStrategy, 0, len(combos))
	for _, combo := range combos {
		s := emptyStrategy(p, len(infoSets))
		for i, is := range infoSets {
			s.infoSets[i] = is.ID
			s.actions[i] = is.Actions[combo[i]]
			s.index[is.ID] = i
		}
		result = append(result, s)
	}

	return result, nil
}

func emptyStrategy(p Player, n int) PureStrategy {
	return PureStrategy{
		player:   p,
		infoSets: make([]string, n),
		actions:  make([]Action, n),
		index:    make(map[string]int, n),
	}
}

func containsAction(actions []Action, a Action) bool {
	for _, b := range actions {
		if a == b {
			return true
		}
	}

	return false
}

// MixedStrategy is a probability distribution over pure strategies of
// one player. Weights need not be normalized; Sample draws in
// proportion to them.
type MixedStrategy struct {
	Pure    []PureStrategy
	Weights []float64
}

// Sample draws one pure strategy according to the mixture weights.
func (m MixedStrategy) Sample(rng *rand.Rand) *PureStrategy {
	if len(m.Pure) == 0 {
		panic("cannot sample from an empty mixed strategy")
	}

	cum := make([]float64, len(m.Weights))
	total := 0.0
	for i, w := range m.Weights {
		total += w
		cum[i] = total
	}

	x := rng.Float64() * total
	selected := sort.Search(len(cum), func(i int) bool {
		return cum[i] > x
	})
	if selected == len(cum) {
		selected = len(cum) - 1
	}

	return &m.Pure[selected]
}

// Support returns the indices of the pure strategies played with
// non-negligible probability.
func (m MixedStrategy) Support() []int {
	var support []int
	for i, w := range m.Weights {
		if w > ProbTolerance {
			support = append(support, i)
		}
	}

	return support
}
