package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/cache"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// nopCloser wraps an io.Writer to implement io.WriteCloser with a no-op Close.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns w for an empty path and a new file otherwise.
func openOutput(w io.Writer, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{w}, nil
	}
	return os.Create(path)
}

// readGraph loads a host graph, choosing the format by file extension:
// .json for node-link JSON, anything else for the text format.
func readGraph(path string, f *graph.Factory) (*graph.HostGraph, error) {
	var (
		g   *graph.HostGraph
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		g, err = graph.ReadJSONFile(path, f)
	} else {
		g, err = graph.ReadTextFile(path, f)
	}
	if err != nil {
		return nil, err
	}
	g.SetFixed()
	return g, nil
}

// writeGraph writes g to w in one of the graph formats.
func (c *CLI) writeGraph(ctx context.Context, w io.Writer, g graph.Graph, format string) error {
	switch format {
	case FormatJSON:
		return graph.WriteJSON(g, w)
	case FormatText:
		return graph.WriteText(g, w)
	case FormatDOT, FormatSVG:
		return c.writeDOT(ctx, w, graph.ToDOT(g), format)
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'dot', 'svg', 'json' or 'text')", format)
}

// writeDOT writes a DOT document as is, or rendered to SVG. Rendered SVG is
// looked up in and stored to the artifact cache.
func (c *CLI) writeDOT(ctx context.Context, w io.Writer, dot, format string) error {
	switch format {
	case FormatDOT:
		_, err := io.WriteString(w, dot)
		return err
	case FormatSVG:
		svg, err := c.renderSVG(ctx, dot)
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'dot' or 'svg')", format)
}

func (c *CLI) renderSVG(ctx context.Context, dot string) ([]byte, error) {
	logger := loggerFromContext(ctx)
	store := c.artifacts()
	key := cache.ArtifactKey(dot, FormatSVG)
	if svg, hit, err := store.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "error", err)
	} else if hit {
		logger.Debug("cache hit", "key", key)
		return svg, nil
	}

	spinner := newSpinner(ctx, os.Stderr, "Rendering SVG...")
	spinner.Start()
	svg, err := graph.RenderSVG(ctx, dot)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	if err := store.Set(ctx, key, svg, c.Config.Render.CacheTTL); err != nil {
		logger.Warn("cache write failed", "error", err)
	}
	return svg, nil
}

// artifacts returns the render cache, opening it on first use. A cache that
// cannot be opened degrades to no caching.
func (c *CLI) artifacts() cache.Cache {
	if c.cache != nil {
		return c.cache
	}
	c.cache = cache.NewNullCache()
	if !c.Config.Render.Cache {
		return c.cache
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory", "error", err)
		return c.cache
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("render cache disabled", "error", err)
		return c.cache
	}
	c.cache = fc
	return c.cache
}
