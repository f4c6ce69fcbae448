package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Step is a single analysis stage of the pipeline
type Step interface {
	Name() string
	Run(ctx context.Context) (*StepResult, error)
}

// StepResult captures the outcome of one step
type StepResult struct {
	Step      string        `json:"step"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Summary   string        `json:"summary,omitempty"`
	Artifacts []string      `json:"artifacts,omitempty"`
}

// RunResult captures a full pipeline run
type RunResult struct {
	RunID     string        `json:"run_id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Steps     []StepResult  `json:"steps"`
	Halted    string        `json:"halted_at,omitempty"` // step that stopped the run
}

// EventSink receives run lifecycle events. Implementations must be fast;
// the runner calls them inline.
type EventSink interface {
	RunStarted(runID string)
	StepStarted(runID, step string)
	StepCompleted(runID string, result StepResult)
	RunCompleted(result RunResult)
}

// Config tunes runner behavior
type Config struct {
	ArtifactsDir string        `yaml:"artifacts_dir"`
	StepTimeout  time.Duration `yaml:"step_timeout"`
}

// DefaultConfig returns runner defaults
func DefaultConfig() Config {
	return Config{
		ArtifactsDir: "out/runs",
		StepTimeout:  5 * time.Minute,
	}
}

// Runner executes registered steps in fixed order with fail-fast semantics:
// the first step failure halts the run and later steps never start.
type Runner struct {
	config Config
	steps  []Step
	sinks  []EventSink
}

// NewRunner creates a pipeline runner
func NewRunner(config Config) *Runner {
	if config.ArtifactsDir == "" {
		config.ArtifactsDir = DefaultConfig().ArtifactsDir
	}
	if config.StepTimeout <= 0 {
		config.StepTimeout = DefaultConfig().StepTimeout
	}
	return &Runner{config: config}
}

// Register appends a step. Registration order is execution order.
func (r *Runner) Register(steps ...Step) {
	r.steps = append(r.steps, steps...)
}

// AddSink attaches an event sink
func (r *Runner) AddSink(sink EventSink) {
	r.sinks = append(r.sinks, sink)
}

// StepNames lists registered steps in execution order
func (r *Runner) StepNames() []string {
	names := make([]string, len(r.steps))
	for i, s := range r.steps {
		names[i] = s.Name()
	}
	return names
}

// Run executes all steps sequentially and writes a run artifact.
// The returned result is non-nil even when the run fails.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}

	for _, sink := range r.sinks {
		sink.RunStarted(result.RunID)
	}
	log.Info().Str("run_id", result.RunID).Int("steps", len(r.steps)).Msg("Pipeline run started")

	var runErr error
	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			result.Halted = step.Name()
			runErr = fmt.Errorf("run canceled before step %s: %w", step.Name(), err)
			break
		}

		stepResult := r.runStep(ctx, result.RunID, step)
		result.Steps = append(result.Steps, *stepResult)

		if !stepResult.Success {
			result.Halted = step.Name()
			runErr = fmt.Errorf("step %s failed: %s", step.Name(), stepResult.Error)
			break
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Success = runErr == nil

	if err := r.writeArtifact(result); err != nil {
		log.Warn().Err(err).Msg("Failed to write run artifact")
	}

	for _, sink := range r.sinks {
		sink.RunCompleted(*result)
	}

	if runErr != nil {
		log.Error().Str("run_id", result.RunID).Str("halted_at", result.Halted).Err(runErr).Msg("Pipeline run failed")
		return result, runErr
	}

	log.Info().Str("run_id", result.RunID).Dur("duration", result.Duration).Msg("Pipeline run completed")
	return result, nil
}

func (r *Runner) runStep(ctx context.Context, runID string, step Step) *StepResult {
	for _, sink := range r.sinks {
		sink.StepStarted(runID, step.Name())
	}

	stepCtx, cancel := context.WithTimeout(ctx, r.config.StepTimeout)
	defer cancel()

	start := time.Now()
	log.Info().Str("step", step.Name()).Msg("Step started")

	result, err := step.Run(stepCtx)
	if result == nil {
		result = &StepResult{}
	}
	result.Step = step.Name()
	result.StartTime = start
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(start)

	if err != nil {
		result.Success = false
		result.Error = err.Error()
		log.Error().Str("step", step.Name()).Dur("duration", result.Duration).Err(err).Msg("Step failed")
	} else {
		result.Success = true
		log.Info().Str("step", step.Name()).Dur("duration", result.Duration).Msg("Step completed")
	}

	for _, sink := range r.sinks {
		sink.StepCompleted(runID, *result)
	}

	return result
}

// writeArtifact appends the run result to a JSONL ledger under the artifacts dir
func (r *Runner) writeArtifact(result *RunResult) error {
	if err := os.MkdirAll(r.config.ArtifactsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifacts dir: %w", err)
	}

	path := filepath.Join(r.config.ArtifactsDir, "runs.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open run ledger: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to append run result: %w", err)
	}
	return nil
}
