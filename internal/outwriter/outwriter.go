// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/teamspot/core/gitlog"
	"github.com/huangsam/teamspot/internal/contract"
	"github.com/huangsam/teamspot/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAlignment prints a team alignment matrix using the configured output format.
func (ow *OutWriter) WriteAlignment(result schema.TeamAlignmentResult, cfg *contract.Config, duration time.Duration) error {
	return WriteAlignmentResults(result, cfg, duration)
}

// WriteHotspots prints ranked hotspots using the configured output format.
func (ow *OutWriter) WriteHotspots(hotspots []schema.FileHotspot, cfg *contract.Config, duration time.Duration) error {
	return WriteHotspotResults(hotspots, cfg, duration)
}

// WriteAggregatedHotspots prints per-scope hotspot counts using the configured output format.
func (ow *OutWriter) WriteAggregatedHotspots(aggregated []schema.AggregatedHotspot, cfg *contract.Config, duration time.Duration) error {
	return WriteAggregatedResults(aggregated, cfg, duration)
}

// WriteLogEntries prints parsed log entries as JSON.
func (ow *OutWriter) WriteLogEntries(entries []gitlog.LogEntry, cfg *contract.Config) error {
	return WriteLogResults(entries, cfg)
}
