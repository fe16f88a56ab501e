package rule

import (
	"context"
	"slices"
	"strings"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// CompositeEvent is the event of a rule with sub-rules: the set of basic
// events of the rule match and of all sub-rule matches.
type CompositeEvent struct {
	events []*BasicEvent
	hash   uint64
	key    string
}

// NewCompositeEvent creates the event made up of the given basic events.
// Order and duplicates do not matter.
func NewCompositeEvent(events ...*BasicEvent) *CompositeEvent {
	sorted := slices.Clone(events)
	slices.SortFunc(sorted, func(a, b *BasicEvent) int { return a.Compare(b) })
	sorted = slices.CompactFunc(sorted, func(a, b *BasicEvent) bool { return a.Equal(b) })

	c := &CompositeEvent{events: sorted}
	keys := make([]string, len(sorted))
	for i, e := range sorted {
		c.hash += e.Hash()
		keys[i] = e.Key()
	}
	c.key = "{" + strings.Join(keys, ";") + "}"
	return c
}

// Rule returns the root rule of the constituents.
func (c *CompositeEvent) Rule() *Rule {
	if len(c.events) == 0 {
		return nil
	}
	return c.events[0].rule.Root()
}

// AnchorImage concatenates the anchor images of the constituents.
func (c *CompositeEvent) AnchorImage() []graph.Element {
	var result []graph.Element
	for _, e := range c.events {
		result = append(result, e.image...)
	}
	return result
}

// Basics returns the constituents in canonical order.
func (c *CompositeEvent) Basics() []*BasicEvent { return slices.Clone(c.events) }

// RecordEffect records the constituents in order.
func (c *CompositeEvent) RecordEffect(ctx context.Context, eff *Effect) error {
	for _, e := range c.events {
		if err := e.RecordEffect(ctx, eff); err != nil {
			return err
		}
	}
	return nil
}

// Disables reports whether any constituent disables other.
func (c *CompositeEvent) Disables(other Event) bool {
	for _, e := range c.events {
		if e.Disables(other) {
			return true
		}
	}
	return false
}

// Conflicts reports whether any constituent conflicts with other.
func (c *CompositeEvent) Conflicts(other Event) bool {
	for _, e := range c.events {
		if e.Conflicts(other) {
			return true
		}
	}
	return false
}

// Hash is the sum of the constituent hashes.
func (c *CompositeEvent) Hash() uint64 { return c.hash }

// Equal reports whether other is a composite event with the same constituents.
func (c *CompositeEvent) Equal(other Event) bool {
	o, ok := other.(*CompositeEvent)
	if !ok {
		return false
	}
	if c == o {
		return true
	}
	return c.hash == o.hash && slices.EqualFunc(c.events, o.events, func(a, b *BasicEvent) bool { return a.Equal(b) })
}

// Compare orders composite events after basic ones, and among themselves
// lexicographically by constituents.
func (c *CompositeEvent) Compare(other Event) int {
	o, ok := other.(*CompositeEvent)
	if !ok {
		return 1
	}
	return slices.CompareFunc(c.events, o.events, func(a, b *BasicEvent) int { return a.Compare(b) })
}

// Key joins the constituent keys.
func (c *CompositeEvent) Key() string { return c.key }

func (c *CompositeEvent) String() string { return c.key }
