// Package cli resolves the shared command-line arguments of the
// executables in cmd.
package cli

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/timpalpant/efg"
	"github.com/timpalpant/efg/blackwell"
	"github.com/timpalpant/efg/efgio"
)

// ResolveGame interprets a -game argument: the name of a builtin game
// ("dollar", "parity", "addition" or "addition:k,n"), or the path of a
// JSON game description.
func ResolveGame(arg string) (*efg.Tree, error) {
	switch {
	case arg == "dollar":
		return blackwell.Dollar(), nil
	case arg == "parity":
		return blackwell.Parity(), nil
	case arg == "addition":
		// Small enough for the normal-form solvers to handle.
		return blackwell.Addition(2, 4)
	case strings.HasPrefix(arg, "addition:"):
		params := strings.Split(strings.TrimPrefix(arg, "addition:"), ",")
		if len(params) != 2 {
			return nil, errors.Errorf("expected addition:k,n, got %q", arg)
		}
		k, err := strconv.Atoi(params[0])
		if err != nil {
			return nil, errors.Wrapf(err, "parsing k in %q", arg)
		}
		n, err := strconv.Atoi(params[1])
		if err != nil {
			return nil, errors.Wrapf(err, "parsing n in %q", arg)
		}
		return blackwell.Addition(k, n)
	}

	return efgio.Load(arg)
}
