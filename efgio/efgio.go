// Package efgio reads and writes extensive-form game descriptions and
// their solutions as versioned JSON documents. Game documents
// round-trip the declarative tree description losslessly; every read
// is validated by constructing the tree.
package efgio

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/timpalpant/efg"
)

// FormatVersion is the version written in every document produced by
// this package. Documents with any other version are rejected.
const FormatVersion = 1

type gameFile struct {
	FormatVersion int         `json:"format_version"`
	Game          efg.GameDef `json:"game"`
}

// Read decodes a game description from r and validates it by
// constructing the Tree.
func Read(r io.Reader) (*efg.Tree, error) {
	var f gameFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decoding game description")
	}
	if f.FormatVersion != FormatVersion {
		return nil, errors.Errorf("unsupported format version %d, expected %d", f.FormatVersion, FormatVersion)
	}

	return efg.New(f.Game)
}

// Write encodes t as an indented JSON document. Node and edge order is
// preserved, so Write after Read reproduces the original document.
func Write(w io.Writer, t *efg.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(gameFile{FormatVersion: FormatVersion, Game: t.Def()})
	return errors.Wrap(err, "encoding game description")
}

// Load reads a game description from the file at path.
func Load(path string) (*efg.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %v", path)
	}
	defer f.Close()

	return Read(f)
}

// Save writes a game description to the file at path.
func Save(path string, t *efg.Tree) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %v", path)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// WeightedChoice is one pure strategy of a mixture together with its
// weight: a probability and an information set -> action assignment.
type WeightedChoice struct {
	Weight  float64           `json:"weight"`
	Choices map[string]string `json:"choices"`
}

// Solution is the persistable form of an equilibrium.
type Solution struct {
	FormatVersion int              `json:"format_version"`
	Game          string           `json:"game,omitempty"`
	Value         float64          `json:"value"`
	Strategy0     []WeightedChoice `json:"strategy0"`
	Strategy1     []WeightedChoice `json:"strategy1"`
}

// NewSolution converts an in-memory solution for the named game,
// dropping pure strategies with negligible weight.
func NewSolution(game string, sol *efg.Solution) *Solution {
	return &Solution{
		FormatVersion: FormatVersion,
		Game:          game,
		Value:         sol.Value,
		Strategy0:     mixture(sol.Strategy0),
		Strategy1:     mixture(sol.Strategy1),
	}
}

// MixedStrategy reconstructs the mixture for p against the given tree.
func (s *Solution) MixedStrategy(t *efg.Tree, p efg.Player) (efg.MixedStrategy, error) {
	entries := s.Strategy0
	if p == efg.Player1 {
		entries = s.Strategy1
	}

	var m efg.MixedStrategy
	for _, wc := range entries {
		choices := make(map[string]efg.Action, len(wc.Choices))
		for is, a := range wc.Choices {
			choices[is] = efg.Action(a)
		}

		ps, err := efg.NewPureStrategy(t, p, choices)
		if err != nil {
			return efg.MixedStrategy{}, err
		}
		m.Pure = append(m.Pure, *ps)
		m.Weights = append(m.Weights, wc.Weight)
	}

	return m, nil
}

// WriteSolution encodes sol as an indented JSON document.
func WriteSolution(w io.Writer, sol *Solution) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(sol), "encoding solution")
}

// ReadSolution decodes a solution document from r.
func ReadSolution(r io.Reader) (*Solution, error) {
	var sol Solution
	if err := json.NewDecoder(r).Decode(&sol); err != nil {
		return nil, errors.Wrap(err, "decoding solution")
	}
	if sol.FormatVersion != FormatVersion {
		return nil, errors.Errorf("unsupported format version %d, expected %d", sol.FormatVersion, FormatVersion)
	}

	return &sol, nil
}

func mixture(m efg.MixedStrategy) []WeightedChoice {
	var out []WeightedChoice
	for _, i := range m.Support() {
		choices := make(map[string]string)
		for is, a := range m.Pure[i].Map() {
			choices[is] = string(a)
		}
		out = append(out, WeightedChoice{Weight: m.Weights[i], Choices: choices})
	}

	return out
}
