// Package pipeline provides the core layout and render pipeline.
//
// This package implements the layout → render flow shared by the CLI and
// the HTTP API. Centralizing it keeps caching behavior and defaults
// identical across entry points.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: compute positions for every node in the patch graph
//  2. Render: generate output artifacts (SVG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage is cached by content hash: the same graph with the same
// options is never laid out twice.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, &g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/patchwire/patchwire/pkg/cache"
	"github.com/patchwire/patchwire/pkg/flow"
	"github.com/patchwire/patchwire/pkg/flow/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Options contains all configuration for the layout and render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options. Zero values fall back to the engine defaults.
	SpacingX      float64 `json:"spacing_x,omitempty"`
	SpacingY      float64 `json:"spacing_y,omitempty"`
	IslandSpacing float64 `json:"island_spacing,omitempty"`
	NodeWidth     float64 `json:"node_width,omitempty"`
	NodeHeight    float64 `json:"node_height,omitempty"`
	MaxSweeps     int     `json:"max_sweeps,omitempty"`
	Force         bool    `json:"force,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses the cache and recomputes everything.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout contains the computed positions and extent.
	Layout flow.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.SpacingX == 0 {
		o.SpacingX = layout.DefaultSpacingX
	}
	if o.SpacingY == 0 {
		o.SpacingY = layout.DefaultSpacingY
	}
	if o.IslandSpacing == 0 {
		o.IslandSpacing = layout.DefaultIslandSpacing
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = layout.DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = layout.DefaultNodeHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions converts pipeline options to engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		SpacingX:      o.SpacingX,
		SpacingY:      o.SpacingY,
		IslandSpacing: o.IslandSpacing,
		NodeWidth:     o.NodeWidth,
		NodeHeight:    o.NodeHeight,
		MaxSweeps:     o.MaxSweeps,
		Force:         o.Force,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		SpacingX:      o.SpacingX,
		SpacingY:      o.SpacingY,
		IslandSpacing: o.IslandSpacing,
		NodeWidth:     o.NodeWidth,
		NodeHeight:    o.NodeHeight,
		MaxSweeps:     o.MaxSweeps,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Engine: "neato",
	}
}
