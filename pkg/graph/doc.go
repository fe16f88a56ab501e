// Package graph provides the host-graph model consumed by the rewriting core.
//
// # Overview
//
// The rewriting packages ([regex], [relation], [automaton], [rule]) never
// depend on a concrete graph structure. They work against three narrow
// contracts defined here:
//
//   - [Graph] and [MutableGraph]: nodes, edges and incidence queries, plus a
//     fixed (frozen) flag after which the structure must not change
//   - [Factory]: creates canonical nodes, edges and labels
//   - [TypeGraph]: node-type subtyping used when matching type labels
//
// [HostGraph], [Factory] and [TypeHierarchy] are the in-memory
// implementations used by the CLI and the tests.
//
// # Elements
//
// [Node] and [Edge] are small comparable values. Two edges with the same
// source, label and target are the same edge, so edges are canonical without
// an interning table. Node types and flags are carried as self-loop edges
// labelled "type:T" and "flag:f":
//
//	f := graph.NewFactory()
//	alice := f.CreateNode()
//	g := graph.NewHostGraph()
//	g.AddEdge(f.CreateEdge(alice, f.CreateLabel("type:Person"), alice))
//
// [Compare] imposes a total order on elements (nodes before edges) that is
// used for deterministic iteration and for ordering rule events.
//
// # Exchange Formats
//
// Graphs are exchanged as node-link JSON ([ReadJSON], [WriteJSON]):
//
//	{
//	  "nodes": [{"id": 0}, {"id": 1, "value": "Alice"}],
//	  "edges": [{"from": 0, "label": "name", "to": 1}]
//	}
//
// or in a compact text form ([ParseText], [WriteText]):
//
//	node n0 Person;
//	n0 -name-> 'Alice';
//	n0 -flag:root-> n0;
//
// [ToDOT] and [RenderSVG] produce Graphviz output for inspection.
//
// # Concurrency
//
// None of the types in this package are safe for concurrent mutation. A
// fixed graph may be read from multiple goroutines.
//
// [regex]: github.com/mjmehrabi/Groove-RL-sub013/pkg/regex
// [relation]: github.com/mjmehrabi/Groove-RL-sub013/pkg/relation
// [automaton]: github.com/mjmehrabi/Groove-RL-sub013/pkg/automaton
// [rule]: github.com/mjmehrabi/Groove-RL-sub013/pkg/rule
package graph
