// Package rule models production rules, the events of their matches, and
// the application of events to host graphs.
//
// # Rules
//
// A [Rule] is a pattern whose nodes and edges are readers, erasers or
// creators. Reader edges may carry arbitrary path expressions; erased and
// created edges carry a single label. Rules may merge nodes and may contain
// sub-rules that are applied for every extension of a parent match.
// [Rule.Fix] validates the rule and computes its anchor: the matched
// elements whose images an application needs to know.
//
// # Events
//
// A match is described by a [Proof]. Its [Event] keeps only the rule and the
// images of the anchor, so matches that differ in irrelevant places share
// one event:
//
//	rec := rule.NewRecord(factory)
//	ev := proof.Event(rec)       // interned in rec
//	app := rule.NewApplication(ev, host, rec)
//	target, err := app.Target(ctx)
//
// Events report whether they disable or conflict with other events without
// being applied.
//
// # Effects
//
// An [Effect] collects created nodes, erased nodes and edges, merges and
// created edges. Computing it may consult a [ValueOracle] for data values;
// a cancelled oracle abandons the effect. Once fixed, its views give the
// delta an [Application] hands to a [DeltaTarget]: removed edges, removed
// nodes, added nodes, added edges.
//
// # Records
//
// A [Record] belongs to one exploration. It owns the node factory, interns
// events and transition labels, and reuses nodes that an event created
// before and that have since disappeared, which keeps node numbers from
// growing without bound.
package rule
