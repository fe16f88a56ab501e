package rule_test

import (
	"fmt"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/rule"
)

func ExampleRule_Anchor() {
	r := rule.New("move")
	x := r.AddNode(rule.Eraser, "")
	y := r.AddNode(rule.Reader, "")
	z := r.AddNode(rule.Creator, "")
	r.AddEdge(rule.Eraser, x, regex.AtomText("a"), y)
	r.AddEdge(rule.Creator, z, regex.AtomText("a"), y)
	if err := r.Fix(); err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, k := range r.Anchor() {
		fmt.Println(k)
	}
	fmt.Println("creators:", len(r.Creators()))
	// Output:
	// r0
	// r1
	// r0 -a-> r1
	// creators: 1
}
