package automaton_test

import (
	"fmt"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/automaton"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
)

func ExampleBuild() {
	g, _ := graph.ParseText(`
n0 -parent-> n1;
n1 -parent-> n2;
n3 -parent-> n2;
`, nil)
	g.SetFixed()

	// up one or more parent edges, then down one
	dfa, err := automaton.Build(regex.MustParse("parent+.-parent"), automaton.Outgoing)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	from := graph.Node{Number: 0}
	for _, m := range dfa.Recogniser(g, nil).Matches(&from, nil) {
		fmt.Println(m)
	}
	// Output:
	// (n0,n0)
	// (n0,n1)
	// (n0,n3)
}
