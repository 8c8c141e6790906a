package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flowsmith/flowsmith/utils/catalog"
	"github.com/flowsmith/flowsmith/utils/config"
	"github.com/flowsmith/flowsmith/utils/models"
)

// Options configures one pipeline instance
type Options struct {
	// Model is the model name passed to the provider on every call
	Model string
	// MaxModules caps how many modules the blueprint may decompose into;
	// 0 means no cap
	MaxModules int
	// MaxExamples is how many reference examples ground the architect call
	MaxExamples int
	// ModuleExamples is how many reference examples ground each module call
	ModuleExamples int
	// InterCallDelay spaces consecutive module-generation calls; ignored
	// when Limiter is set
	InterCallDelay time.Duration
	// Limiter overrides the default fixed-interval pacing
	Limiter Limiter
}

const (
	defaultMaxExamples    = 3
	defaultModuleExamples = 2
	defaultInterCallDelay = 2 * time.Second
)

// Pipeline sequences the generation stages for one or more runs. Runs are
// independent; the only shared state is the read-only reference catalog.
type Pipeline struct {
	provider models.Provider
	opts     Options
	limiter  Limiter
}

// New creates a pipeline bound to a configured provider
func New(provider models.Provider, opts Options) *Pipeline {
	if opts.MaxExamples <= 0 {
		opts.MaxExamples = defaultMaxExamples
	}
	if opts.ModuleExamples <= 0 {
		opts.ModuleExamples = defaultModuleExamples
	}
	if opts.InterCallDelay <= 0 {
		opts.InterCallDelay = defaultInterCallDelay
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewIntervalLimiter(opts.InterCallDelay)
	}

	return &Pipeline{provider: provider, opts: opts, limiter: limiter}
}

// Run executes the full generation sequence: select examples, architect,
// generate each module strictly sequentially, assemble, then derive setup
// notes and the credit estimate. The contract is all-or-nothing: any stage
// failure aborts the run and no partial graph is returned. Cancellation is
// checked before every stage boundary. The pipeline never retries stages;
// retry policy belongs to the caller.
func (p *Pipeline) Run(ctx context.Context, req Request, progress ProgressWriter) (*Result, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, &StageError{Stage: StageSelect, Err: fmt.Errorf("request description is empty")}
	}

	p.emit(progress, StageSelect, "Selecting reference examples", 0)
	examples := catalog.Select(selectionQuery(req), p.opts.MaxExamples)
	p.emit(progress, StageSelect, fmt.Sprintf("Selected %d reference example(s)", len(examples)), 5)

	if err := p.checkCancelled(ctx, StageArchitect); err != nil {
		return nil, err
	}
	p.emit(progress, StageArchitect, "Designing workflow architecture", 10)
	bp, err := p.runArchitect(ctx, req, examples)
	if err != nil {
		p.emitError(progress, err)
		return nil, err
	}
	p.emit(progress, StageArchitect, fmt.Sprintf("Blueprint ready: %q with %d module(s)", bp.Title, len(bp.Modules)), 20)

	modules := make([]GeneratedModule, 0, len(bp.Modules))
	for i, spec := range bp.Modules {
		if err := p.checkCancelled(ctx, StageModules); err != nil {
			return nil, err
		}
		if i > 0 {
			// Blocking wait between consecutive calls; mitigates upstream
			// rate limiting.
			if err := p.limiter.Wait(ctx); err != nil {
				return nil, &StageError{Stage: StageModules, Module: spec.Name, ModulesCompleted: len(modules), Err: fmt.Errorf("generation cancelled: %w", err)}
			}
		}

		gm, err := p.runModuleGenerator(ctx, bp, spec, len(modules))
		if err != nil {
			p.emitError(progress, err)
			return nil, err
		}
		modules = append(modules, *gm)

		percent := 20 + (i+1)*50/len(bp.Modules)
		p.emit(progress, StageModules, fmt.Sprintf("Generated module %d of %d: %s", i+1, len(bp.Modules), gm.Name), percent)
	}

	if err := p.checkCancelled(ctx, StageAssemble); err != nil {
		return nil, err
	}
	p.emit(progress, StageAssemble, "Assembling final workflow", 80)
	final, err := p.runAssembler(ctx, bp, modules)
	if err != nil {
		p.emitError(progress, err)
		return nil, err
	}
	p.emit(progress, StageAssemble, fmt.Sprintf("Final workflow validated: %d nodes", len(final.Nodes)), 90)

	notes := buildSetupInstructions(bp, modules)
	credits := estimateCredits(bp.EstimatedTotalNodes)
	p.emit(progress, StageFinalize, "Prepared setup instructions and cost estimate", 95)

	p.emitComplete(progress, "Workflow generation complete")
	config.VerboseLog("[Pipeline] Run complete: %d modules, %d nodes, %d credits", len(modules), len(final.Nodes), credits)

	return &Result{
		Blueprint:         bp,
		Modules:           modules,
		FinalWorkflow:     final,
		SetupInstructions: notes,
		CreditsUsed:       credits,
	}, nil
}

func selectionQuery(req Request) string {
	parts := []string{req.Description}
	if req.Type != "" {
		parts = append(parts, req.Type)
	}
	parts = append(parts, req.Integrations...)
	return strings.Join(parts, " ")
}

func (p *Pipeline) checkCancelled(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: stage, Err: fmt.Errorf("generation cancelled: %w", err)}
	}
	return nil
}

func (p *Pipeline) emit(progress ProgressWriter, stage, message string, percent int) {
	config.DebugLog("[Pipeline] %3d%% %s: %s", percent, stage, message)
	if progress == nil {
		return
	}
	progress.WriteProgress(ProgressUpdate{Type: ProgressStep, Stage: stage, Message: message, Percent: percent})
}

func (p *Pipeline) emitComplete(progress ProgressWriter, message string) {
	config.DebugLog("[Pipeline] 100%% %s", message)
	if progress == nil {
		return
	}
	progress.WriteProgress(ProgressUpdate{Type: ProgressComplete, Stage: StageComplete, Message: message, Percent: 100})
}

func (p *Pipeline) emitError(progress ProgressWriter, err error) {
	if progress == nil {
		return
	}
	progress.WriteProgress(ProgressUpdate{Type: ProgressError, Stage: stageOf(err), Message: err.Error(), Error: err})
}

func stageOf(err error) string {
	if se, ok := err.(*StageError); ok {
		return se.Stage
	}
	return ""
}
