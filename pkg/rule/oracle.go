package rule

import (
	"context"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// ValueOracle supplies the values of created value nodes that carry a
// parameter. An oracle may ask a user or an external system; returning an
// error with code [errors.ErrCodeCancelled], or honouring ctx cancellation,
// abandons the effect being computed.
type ValueOracle interface {
	Value(ctx context.Context, host graph.Graph, event Event, node *Node) (string, error)
}

// ValueOracleFunc adapts a function to [ValueOracle].
type ValueOracleFunc func(ctx context.Context, host graph.Graph, event Event, node *Node) (string, error)

// Value calls fn.
func (fn ValueOracleFunc) Value(ctx context.Context, host graph.Graph, event Event, node *Node) (string, error) {
	return fn(ctx, host, event, node)
}

// MapOracle answers parameters from a fixed table.
type MapOracle map[string]string

// Value looks up the parameter of node.
func (m MapOracle) Value(_ context.Context, _ graph.Graph, _ Event, node *Node) (string, error) {
	v, ok := m[node.Param]
	if !ok {
		return "", errors.New(errors.ErrCodeNotFound, "no value for parameter %q", node.Param)
	}
	return v, nil
}

// askOracle consults o, mapping any form of cancellation to an error with
// code [errors.ErrCodeCancelled].
func askOracle(ctx context.Context, o ValueOracle, host graph.Graph, event Event, node *Node) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeCancelled, err, "value for %s", node)
	}
	if o == nil {
		return "", errors.New(errors.ErrCodeInvalidRule, "no value oracle for parameter %q", node.Param)
	}
	v, err := o.Value(ctx, host, event, node)
	if err != nil {
		if errors.IsCancelled(err) {
			return "", errors.Wrap(errors.ErrCodeCancelled, err, "value for %s", node)
		}
		return "", err
	}
	return v, nil
}
