package efg

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// matchingPenniesDef describes matching pennies in extensive form:
// Player1's two nodes share one information set so Player1 cannot see
// Player0's choice.
func matchingPenniesDef() GameDef {
	return GameDef{
		Name: "matching-pennies",
		Root: "p0",
		Nodes: []Def{
			{ID: "p0", Kind: Decision, Player: Player0, InfoSet: "I0", Edges: []EdgeDef{
				{Action: "Heads", Child: "p1-H"},
				{Action: "Tails", Child: "p1-T"},
			}},
			{ID: "p1-H", Kind: Decision, Player: Player1, InfoSet: "I1", Edges: []EdgeDef{
				{Action: "Heads", Child: "t-HH"},
				{Action: "Tails", Child: "t-HT"},
			}},
			{ID: "p1-T", Kind: Decision, Player: Player1, InfoSet: "I1", Edges: []EdgeDef{
				{Action: "Heads", Child: "t-TH"},
				{Action: "Tails", Child: "t-TT"},
			}},
			{ID: "t-HH", Kind: Terminal, Payoffs: []float64{1, -1}},
			{ID: "t-HT", Kind: Terminal, Payoffs: []float64{-1, 1}},
			{ID: "t-TH", Kind: Terminal, Payoffs: []float64{-1, 1}},
			{ID: "t-TT", Kind: Terminal, Payoffs: []float64{1, -1}},
		},
	}
}

// coinDef is a minimal tree with a chance node: Player0 guesses a coin
// flip, winning 1 on a correct guess.
func coinDef() GameDef {
	return GameDef{
		Name: "coin-guess",
		Root: "guess",
		Nodes: []Def{
			{ID: "guess", Kind: Decision, Player: Player0, InfoSet: "G", Edges: []EdgeDef{
				{Action: "Heads", Child: "flip-H"},
				{Action: "Tails", Child: "flip-T"},
			}},
			{ID: "flip-H", Kind: Chance, Edges: []EdgeDef{
				{Action: "Heads", Prob: 0.5, Child: "t-HH"},
				{Action: "Tails", Prob: 0.5, Child: "t-HT"},
			}},
			{ID: "flip-T", Kind: Chance, Edges: []EdgeDef{
				{Action: "Heads", Prob: 0.5, Child: "t-TH"},
				{Action: "Tails", Prob: 0.5, Child: "t-TT"},
			}},
			{ID: "t-HH", Kind: Terminal, Payoffs: []float64{1, -1}},
			{ID: "t-HT", Kind: Terminal, Payoffs: []float64{-1, 1}},
			{ID: "t-TH", Kind: Terminal, Payoffs: []float64{-1, 1}},
			{ID: "t-TT", Kind: Terminal, Payoffs: []float64{1, -1}},
		},
	}
}

func TestNew(t *testing.T) {
	tree, err := New(matchingPenniesDef())
	if err != nil {
		t.Fatal(err)
	}

	if tree.NumNodes() != 7 {
		t.Errorf("expected 7 nodes, got %d", tree.NumNodes())
	}

	decision, chance, terminal := tree.NodeCounts()
	if decision != 3 || chance != 0 || terminal != 4 {
		t.Errorf("wrong node counts: %d decision, %d chance, %d terminal",
			decision, chance, terminal)
	}

	if got := tree.ID(tree.Root()); got != "p0" {
		t.Errorf("expected root p0, got %q", got)
	}
	if tree.Kind(tree.Root()) != Decision {
		t.Errorf("expected decision root, got %v", tree.Kind(tree.Root()))
	}
	if !tree.IsZeroSum(ProbTolerance) {
		t.Error("matching pennies should be zero sum")
	}
	if tree.Name() != "matching-pennies" {
		t.Errorf("unexpected name %q", tree.Name())
	}

	if _, ok := tree.Parent(tree.Root()); ok {
		t.Error("root should have no parent")
	}
	child := tree.Edges(tree.Root())[0].Child
	if p, ok := tree.Parent(child); !ok || p != tree.Root() {
		t.Errorf("expected root as parent, got %v (ok=%v)", p, ok)
	}
}

func TestNew_Malformed(t *testing.T) {
	mutate := func(f func(*GameDef)) GameDef {
		def := matchingPenniesDef()
		f(&def)
		return def
	}

	testCases := []struct {
		name   string
		def    GameDef
		reason string
	}{
		{
			name:   "no nodes",
			def:    GameDef{Root: "p0"},
			reason: "game has no nodes",
		},
		{
			name:   "root not found",
			def:    mutate(func(d *GameDef) { d.Root = "nope" }),
			reason: "root node not found",
		},
		{
			name: "duplicate node id",
			def: mutate(func(d *GameDef) {
				d.Nodes = append(d.Nodes, Def{ID: "t-HH", Kind: Terminal, Payoffs: []float64{0, 0}})
			}),
			reason: "duplicate node id",
		},
		{
			name: "unknown child",
			def: mutate(func(d *GameDef) {
				d.Nodes[0].Edges[0].Child = "missing"
			}),
			reason: "unknown node",
		},
		{
			name: "two parents",
			def: mutate(func(d *GameDef) {
				d.Nodes[2].Edges[1].Child = "t-HT"
			}),
			reason: "more than one parent",
		},
		{
			name: "unreachable node",
			def: mutate(func(d *GameDef) {
				d.Nodes = append(d.Nodes, Def{ID: "orphan", Kind: Terminal, Payoffs: []float64{0, 0}})
			}),
			reason: "not reachable",
		},
		{
			name: "duplicate action",
			def: mutate(func(d *GameDef) {
				d.Nodes[0].Edges[1].Action = "Heads"
			}),
			reason: "duplicate action",
		},
		{
			name: "decision without info set",
			def: mutate(func(d *GameDef) {
				d.Nodes[0].InfoSet = ""
			}),
			reason: "without an information set",
		},
		{
			name: "probability on decision edge",
			def: mutate(func(d *GameDef) {
				d.Nodes[0].Edges[0].Prob = 0.5
			}),
			reason: "probability on decision edge",
		},
		{
			name: "payoffs on non-terminal",
			def: mutate(func(d *GameDef) {
				d.Nodes[0].Payoffs = []float64{1, -1}
			}),
			reason: "payoffs on a non-terminal",
		},
		{
			name: "terminal with edges",
			def: mutate(func(d *GameDef) {
				d.Nodes[3].Edges = []EdgeDef{{Action: "x", Child: "t-HT"}}
			}),
			reason: "terminal node has outgoing edges",
		},
		{
			name: "terminal with wrong payoff count",
			def: mutate(func(d *GameDef) {
				d.Nodes[3].Payoffs = []float64{1}
			}),
			reason: "expected one per player",
		},
		{
			name: "inconsistent info set actions",
			def: mutate(func(d *GameDef) {
				d.Nodes[2].Edges[0].Action = "Edge"
			}),
			reason: "inconsistent actions",
		},
		{
			name: "info set with two owners",
			def: mutate(func(d *GameDef) {
				d.Nodes[2].Player = Player0
			}),
			reason: "owned by both",
		},
		{
			name: "chance probabilities do not sum to 1",
			def: GameDef{
				Root: "c",
				Nodes: []Def{
					{ID: "c", Kind: Chance, Edges: []EdgeDef{
						{Action: "a", Prob: 0.5, Child: "t0"},
						{Action: "b", Prob: 0.4, Child: "t1"},
					}},
					{ID: "t0", Kind: Terminal, Payoffs: []float64{1, -1}},
					{ID: "t1", Kind: Terminal, Payoffs: []float64{-1, 1}},
				},
			},
			reason: "probabilities sum to",
		},
		{
			name: "chance probability out of range",
			def: GameDef{
				Root: "c",
				Nodes: []Def{
					{ID: "c", Kind: Chance, Edges: []EdgeDef{
						{Action: "a", Prob: 1.5, Child: "t0"},
						{Action: "b", Prob: -0.5, Child: "t1"},
					}},
					{ID: "t0", Kind: Terminal, Payoffs: []float64{1, -1}},
					{ID: "t1", Kind: Terminal, Payoffs: []float64{-1, 1}},
				},
			},
			reason: "out of range",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.def)
			if err == nil {
				t.Fatal("expected construction to fail")
			}

			var mte *MalformedTreeError
			if !errors.As(err, &mte) {
				t.Fatalf("expected MalformedTreeError, got %T: %v", err, err)
			}
			if !strings.Contains(mte.Reason, tc.reason) {
				t.Errorf("expected reason containing %q, got %q", tc.reason, mte.Reason)
			}
		})
	}
}

func TestNew_ChanceTolerance(t *testing.T) {
	// Ten edges of 0.1 sum to 1 only within floating tolerance.
	def := GameDef{Root: "chance"}
	chance := Def{ID: "chance", Kind: Chance}
	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		chance.Edges = append(chance.Edges, EdgeDef{Action: Action(id), Prob: 0.1, Child: id})
	}
	def.Nodes = append(def.Nodes, chance)
	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		def.Nodes = append(def.Nodes, Def{ID: id, Kind: Terminal, Payoffs: []float64{0, 0}})
	}

	if _, err := New(def); err != nil {
		t.Errorf("probabilities summing to 1 within tolerance should be accepted: %v", err)
	}
}

func TestAccessors(t *testing.T) {
	tree, err := New(coinDef())
	if err != nil {
		t.Fatal(err)
	}

	root := tree.Root()
	flipH := tree.Edges(root)[0].Child
	terminal := tree.Edges(flipH)[0].Child

	payoffs, err := tree.TerminalPayoff(terminal)
	if err != nil {
		t.Fatal(err)
	}
	if payoffs != [2]float64{1, -1} {
		t.Errorf("unexpected payoffs %v", payoffs)
	}

	v, err := tree.Payoff(terminal, Player1)
	if err != nil {
		t.Fatal(err)
	}
	if v != -1 {
		t.Errorf("expected -1, got %v", v)
	}

	if _, err := tree.TerminalPayoff(root); !errors.Is(err, ErrNotTerminal) {
		t.Errorf("expected ErrNotTerminal, got %v", err)
	}

	p, err := tree.OwningPlayer(root)
	if err != nil {
		t.Fatal(err)
	}
	if p != Player0 {
		t.Errorf("expected Player0, got %v", p)
	}
	if _, err := tree.OwningPlayer(flipH); !errors.Is(err, ErrNotDecision) {
		t.Errorf("expected ErrNotDecision, got %v", err)
	}

	isID, err := tree.InfoSetID(root)
	if err != nil {
		t.Fatal(err)
	}
	if isID != "G" {
		t.Errorf("expected info set G, got %q", isID)
	}
	if _, err := tree.InfoSetID(terminal); !errors.Is(err, ErrNotDecision) {
		t.Errorf("expected ErrNotDecision, got %v", err)
	}
}

func TestInformationSets_DiscoveryOrder(t *testing.T) {
	tree, err := New(matchingPenniesDef())
	if err != nil {
		t.Fatal(err)
	}

	p0Sets := tree.InformationSets(Player0)
	if len(p0Sets) != 1 || p0Sets[0].ID != "I0" {
		t.Errorf("unexpected Player0 information sets: %+v", p0Sets)
	}
	if len(p0Sets[0].Nodes) != 1 {
		t.Errorf("I0 should be a singleton, got %d nodes", len(p0Sets[0].Nodes))
	}

	p1Sets := tree.InformationSets(Player1)
	if len(p1Sets) != 1 || p1Sets[0].ID != "I1" {
		t.Errorf("unexpected Player1 information sets: %+v", p1Sets)
	}
	if len(p1Sets[0].Nodes) != 2 {
		t.Errorf("I1 should have 2 nodes, got %d", len(p1Sets[0].Nodes))
	}
	if !reflect.DeepEqual(p1Sets[0].Actions, []Action{"Heads", "Tails"}) {
		t.Errorf("unexpected actions %v", p1Sets[0].Actions)
	}
}

func TestDef_RoundTrip(t *testing.T) {
	def := coinDef()
	tree, err := New(def)
	if err != nil {
		t.Fatal(err)
	}

	got := tree.Def()
	if !reflect.DeepEqual(got, def) {
		t.Errorf("Def() does not round trip:\n got %+v\nwant %+v", got, def)
	}

	// The exported def is a copy; mutating it must not affect the tree.
	got.Nodes[0].ID = "mutated"
	if tree.ID(tree.Root()) != "guess" {
		t.Error("mutating the exported def changed the tree")
	}
}

func TestIsZeroSum(t *testing.T) {
	def := coinDef()
	def.Nodes[3].Payoffs = []float64{1, 0}
	tree, err := New(def)
	if err != nil {
		t.Fatal(err)
	}

	if tree.IsZeroSum(ProbTolerance) {
		t.Error("tree with payoffs {1, 0} should not be zero sum")
	}
	if !tree.IsZeroSum(2) {
		t.Error("tree should be zero sum within a tolerance of 2")
	}
}
