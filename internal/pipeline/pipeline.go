// Package pipeline wires the recurrence-hike engine to its collaborators:
// the input source in front of it and the negotiation-script generator
// behind it. Control flow is strictly linear; a failed step aborts the run.
package pipeline

import (
	"context"
	"fmt"

	"github.com/AhmadFikry/subscription-recovery/internal/detector"
	"github.com/AhmadFikry/subscription-recovery/internal/domain"
	"github.com/AhmadFikry/subscription-recovery/internal/ingest"
	"github.com/AhmadFikry/subscription-recovery/internal/logger"
	"github.com/AhmadFikry/subscription-recovery/internal/negotiator"
	"github.com/AhmadFikry/subscription-recovery/internal/report"
)

// Step represents a single step in the analysis pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps.
type State struct {
	SourceURI string
	Raw       []byte
	Table     *ingest.Table
	Records   []domain.Transaction
	Events    []domain.HikeEvent
	Report    *report.Report
	Script    string
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// New creates a pipeline from the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially against the shared state.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// Step 1: FetchInputStep reads the raw input bytes for the source URI.
type FetchInputStep struct {
	Fetcher InputFetcher
}

func (s *FetchInputStep) Execute(ctx context.Context, state *State) error {
	raw, err := s.Fetcher.Fetch(ctx, state.SourceURI)
	if err != nil {
		return err
	}
	state.Raw = raw
	return nil
}

// Step 2: ParseRecordsStep parses and validates the raw bytes into typed
// transactions. Schema and parse failures terminate the run here.
type ParseRecordsStep struct {
	Columns ingest.Columns
}

func (s *ParseRecordsStep) Execute(ctx context.Context, state *State) error {
	table, err := ingest.ReadTable(state.SourceURI, state.Raw)
	if err != nil {
		return err
	}
	records, err := ingest.Records(table, s.Columns)
	if err != nil {
		return err
	}
	state.Table = table
	state.Records = records

	log := logger.FromContext(ctx)
	log.Debug().
		Int("rows", len(records)).
		Str("source", state.SourceURI).
		Msg("Parsed transaction records")
	return nil
}

// Step 3: DetectHikesStep runs the engine over the validated records.
type DetectHikesStep struct {
	// Parallel fans out over merchant partitions. The emitted events are
	// identical either way; this only matters for very large inputs.
	Parallel bool
}

func (s *DetectHikesStep) Execute(ctx context.Context, state *State) error {
	if s.Parallel {
		state.Events = detector.FindHikesParallel(state.Records)
	} else {
		state.Events = detector.FindHikes(state.Records)
	}
	return nil
}

// Step 4: BuildReportStep wraps the events in a serializable report.
type BuildReportStep struct{}

func (s *BuildReportStep) Execute(ctx context.Context, state *State) error {
	state.Report = report.Build(state.Events)

	log := logger.FromContext(ctx)
	log.Info().
		Str("analysis_id", state.Report.AnalysisID).
		Str("status", string(state.Report.Status)).
		Int("findings", len(state.Report.Findings)).
		Msg("Analysis complete")
	return nil
}

// Step 5: GenerateScriptStep asks the script generator for a negotiation
// email based on the report.
type GenerateScriptStep struct {
	Generator negotiator.ScriptGenerator
}

func (s *GenerateScriptStep) Execute(ctx context.Context, state *State) error {
	script, err := s.Generator.GenerateScript(ctx, state.Report)
	if err != nil {
		return err
	}
	state.Script = script
	return nil
}

// NewAnalysisPipeline builds the engine-only pipeline: fetch, parse,
// detect, report.
func NewAnalysisPipeline(fetcher InputFetcher, cols ingest.Columns, parallel bool) *Pipeline {
	return New(
		&FetchInputStep{Fetcher: fetcher},
		&ParseRecordsStep{Columns: cols},
		&DetectHikesStep{Parallel: parallel},
		&BuildReportStep{},
	)
}

// NewRecoveryPipeline builds the full pipeline: the analysis stages plus
// negotiation-script generation.
func NewRecoveryPipeline(fetcher InputFetcher, cols ingest.Columns, gen negotiator.ScriptGenerator) *Pipeline {
	return New(
		&FetchInputStep{Fetcher: fetcher},
		&ParseRecordsStep{Columns: cols},
		&DetectHikesStep{},
		&BuildReportStep{},
		&GenerateScriptStep{Generator: gen},
	)
}

// Analyze runs the analysis pipeline for a source URI and returns the report.
func Analyze(ctx context.Context, uri string, fetcher InputFetcher, cols ingest.Columns) (*report.Report, error) {
	state := &State{SourceURI: uri}
	if err := NewAnalysisPipeline(fetcher, cols, false).Execute(ctx, state); err != nil {
		return nil, err
	}
	return state.Report, nil
}

// Recover runs the full pipeline and returns both the report and the
// negotiation script.
func Recover(ctx context.Context, uri string, fetcher InputFetcher, cols ingest.Columns, gen negotiator.ScriptGenerator) (*report.Report, string, error) {
	state := &State{SourceURI: uri}
	if err := NewRecoveryPipeline(fetcher, cols, gen).Execute(ctx, state); err != nil {
		return nil, "", err
	}
	return state.Report, state.Script, nil
}
