package rule

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// ReuseMode controls whether a record interns events.
type ReuseMode int

const (
	// ReuseNone keeps every event as created; identities compare by content.
	ReuseNone ReuseMode = iota
	// ReuseEvents interns events so equal events share one instance;
	// identities compare by pointer.
	ReuseEvents
)

func (m ReuseMode) String() string {
	if m == ReuseEvents {
		return "events"
	}
	return "none"
}

// ParseReuseMode parses "none" or "events".
func ParseReuseMode(s string) (ReuseMode, bool) {
	switch s {
	case "none":
		return ReuseNone, true
	case "events":
		return ReuseEvents, true
	}
	return ReuseNone, false
}

// Record is the state shared by everything derived during one exploration:
// the element factory, the fresh-node counter, and the stores of canonical
// events and transition labels. A record is not safe for concurrent use.
type Record struct {
	id      string
	factory *graph.Factory
	reuse   ReuseMode
	oracle  ValueOracle
	logger  *log.Logger

	events map[uint64][]Event
	labels map[string]*TransitionLabel
	minted int
}

// RecordOption configures a [Record].
type RecordOption func(*Record)

// WithReuse sets the reuse mode; the default is [ReuseEvents].
func WithReuse(m ReuseMode) RecordOption { return func(r *Record) { r.reuse = m } }

// WithOracle sets the oracle for parameterised value nodes.
func WithOracle(o ValueOracle) RecordOption { return func(r *Record) { r.oracle = o } }

// WithLogger sets the logger; debug messages trace interning and node creation.
func WithLogger(l *log.Logger) RecordOption { return func(r *Record) { r.logger = l } }

// NewRecord creates a record drawing nodes from f, or from a new factory if
// f is nil.
func NewRecord(f *graph.Factory, opts ...RecordOption) *Record {
	if f == nil {
		f = graph.NewFactory()
	}
	r := &Record{
		id:      uuid.NewString(),
		factory: f,
		reuse:   ReuseEvents,
		events:  make(map[uint64][]Event),
		labels:  make(map[string]*TransitionLabel),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	r.logger = r.logger.With("record", r.id[:8])
	return r
}

// ID returns the session identifier.
func (r *Record) ID() string { return r.id }

// Factory returns the element factory.
func (r *Record) Factory() *graph.Factory { return r.factory }

// Reuse returns the reuse mode.
func (r *Record) Reuse() ReuseMode { return r.reuse }

// Logger returns the record's logger.
func (r *Record) Logger() *log.Logger { return r.logger }

// MintedNodes returns the number of fresh nodes created so far.
func (r *Record) MintedNodes() int { return r.minted }

// EventCount returns the number of interned events.
func (r *Record) EventCount() int {
	n := 0
	for _, bucket := range r.events {
		n += len(bucket)
	}
	return n
}

func (r *Record) mintNode() graph.Node {
	n := r.factory.CreateNode()
	r.minted++
	r.logger.Debug("fresh node", "node", n, "total", r.minted)
	return n
}

// intern returns the canonical instance of e. In [ReuseNone] mode it
// returns e itself.
func (r *Record) intern(e Event) Event {
	if r.reuse != ReuseEvents {
		return e
	}
	bucket := r.events[e.Hash()]
	for _, known := range bucket {
		if known.Equal(e) {
			return known
		}
	}
	r.events[e.Hash()] = append(bucket, e)
	r.logger.Debug("new event", "event", e.Key())
	return e
}

// Intern returns the canonical instance of e.
func (r *Record) Intern(e Event) Event { return r.intern(e) }

// =============================================================================
// Identities
// =============================================================================

// Ref is a comparable identity for an event, usable as a map key. Two refs
// from the same record are equal exactly when the record considers their
// events the same.
type Ref interface {
	isRef()
}

// InternedRef identifies an interned event by its instance.
type InternedRef struct {
	event Event
}

func (InternedRef) isRef() {}

// Event returns the interned event.
func (r InternedRef) Event() Event { return r.event }

// LooseRef identifies an event by its content key.
type LooseRef struct {
	key string
}

func (LooseRef) isRef() {}

// Key returns the content key.
func (r LooseRef) Key() string { return r.key }

// Ref returns the identity of e: an [InternedRef] to the canonical instance
// in [ReuseEvents] mode, a [LooseRef] otherwise.
func (r *Record) Ref(e Event) Ref {
	if r.reuse == ReuseEvents {
		return InternedRef{event: r.intern(e)}
	}
	return LooseRef{key: e.Key()}
}

// =============================================================================
// Transition labels
// =============================================================================

// TransitionLabel labels a state transition: the event applied and the
// nodes it created.
type TransitionLabel struct {
	event   Event
	created []graph.Node
	key     string
}

// Event returns the applied event.
func (l *TransitionLabel) Event() Event { return l.event }

// Created returns the created nodes in creation order.
func (l *TransitionLabel) Created() []graph.Node { return slices.Clone(l.created) }

func (l *TransitionLabel) String() string { return l.key }

// TransitionLabel returns the canonical label for applying e with the given
// created nodes.
func (r *Record) TransitionLabel(e Event, created []graph.Node) *TransitionLabel {
	e = r.intern(e)
	parts := make([]string, len(created))
	for i, n := range created {
		parts[i] = n.String()
	}
	key := e.Key()
	if len(parts) > 0 {
		key += "+" + strings.Join(parts, ",")
	}
	if l, ok := r.labels[key]; ok {
		return l
	}
	l := &TransitionLabel{event: e, created: slices.Clone(created), key: key}
	r.labels[key] = l
	return l
}
