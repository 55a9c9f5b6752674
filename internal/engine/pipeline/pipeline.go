// Package pipeline executes the bootstrap plan as an ordered, fail-fast
// sequence of stages.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"github.com/depstrap/depstrap/internal/core/domain"
	"github.com/depstrap/depstrap/internal/core/ports"
)

// Pipeline runs the stages of a plan strictly in order. The first failing
// subprocess aborts the run; completed stages are recorded in the manifest
// so a later run resumes behind them.
type Pipeline struct {
	executor ports.Executor
	syncer   ports.Syncer
	store    ports.ManifestStore
	tracer   ports.Tracer
	logger   ports.Logger
}

// New creates a Pipeline with the given collaborators.
func New(
	executor ports.Executor,
	syncer ports.Syncer,
	store ports.ManifestStore,
	tracer ports.Tracer,
	logger ports.Logger,
) *Pipeline {
	return &Pipeline{
		executor: executor,
		syncer:   syncer,
		store:    store,
		tracer:   tracer,
		logger:   logger,
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Force bypasses the manifest and reruns every stage.
	Force bool

	// SkipTests omits stage test and benchmark commands.
	SkipTests bool

	// Only truncates the pipeline after the named stage. Earlier stages
	// still run because later artifacts depend on them.
	Only string
}

// Run materializes the plan's repositories and executes its stages in order.
func (p *Pipeline) Run(ctx context.Context, plan *domain.Plan, opts RunOptions) error {
	if err := plan.Validate(); err != nil {
		return err
	}

	stages, err := selectStages(plan, opts.Only)
	if err != nil {
		return err
	}

	names := make([]string, len(stages))
	for i := range stages {
		names[i] = stages[i].Name
	}
	p.tracer.EmitPlan(ctx, names)

	if err := p.ensureSources(ctx, plan); err != nil {
		return err
	}

	env := newEnvState(plan.Env)
	for i := range stages {
		if err := p.runStage(ctx, plan, stages[i], env, opts); err != nil {
			return err
		}
	}

	return nil
}

// selectStages returns the stage prefix ending at only, or all stages when
// only is empty.
func selectStages(plan *domain.Plan, only string) ([]*domain.Stage, error) {
	stages := make([]*domain.Stage, 0, len(plan.Stages))
	for i := range plan.Stages {
		stages = append(stages, &plan.Stages[i])
		if only != "" && plan.Stages[i].Name == only {
			return stages, nil
		}
	}
	if only != "" {
		return nil, zerr.With(domain.ErrStageNotFound, "stage", only)
	}
	return stages, nil
}

// ensureSources creates the cache root if needed and clones every missing
// repository at its configured shallow depth. Existing checkouts are left
// alone here; each stage refreshes its own tree right before building.
func (p *Pipeline) ensureSources(ctx context.Context, plan *domain.Plan) error {
	if _, err := os.Stat(plan.CacheRoot); err == nil {
		p.logger.Info("cache root already exists, reusing " + plan.CacheRoot)
	}

	if err := os.MkdirAll(plan.CacheRoot, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheRootCreateFailed.Error())
	}

	ctx, span := p.tracer.Start(ctx, "sources")
	defer span.End()

	for i := range plan.Repositories {
		repo := &plan.Repositories[i]
		dir := plan.RepoDir(repo)

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			continue
		}

		if err := p.syncer.Clone(ctx, repo, dir, nil, span); err != nil {
			err = zerr.With(
				zerr.Wrap(err, domain.ErrCloneFailed.Error()),
				"repository", repo.Name,
			)
			span.RecordError(err)
			return err
		}
	}

	return nil
}

func (p *Pipeline) runStage(
	ctx context.Context,
	plan *domain.Plan,
	stage *domain.Stage,
	env *envState,
	opts RunOptions,
) error {
	// Stage env must be exported even when the stage itself is skipped:
	// later stages read it (e.g. PETSC_DIR during the slepc configure).
	env.apply(stage.Env)

	ctx, span := p.tracer.Start(ctx, stage.Name)
	defer span.End()

	fingerprint := stage.Fingerprint(plan.CacheRoot)

	if !opts.Force {
		info, err := p.store.Get(plan.CacheRoot, stage.Name)
		if err != nil {
			span.RecordError(err)
			return err
		}
		if info != nil && info.Fingerprint == fingerprint {
			span.SetAttribute("depstrap.cached", true)
			return nil
		}
	}

	if err := p.executeStage(ctx, plan, stage, env.slice(), span, opts); err != nil {
		span.RecordError(err)
		return err
	}

	err := p.store.Put(plan.CacheRoot, domain.StageInfo{
		Stage:       stage.Name,
		Fingerprint: fingerprint,
		CompletedAt: time.Now(),
	})
	if err != nil {
		// The build itself succeeded; a manifest write failure only costs a
		// redundant rebuild next run.
		p.logger.Warn("failed to record completion of stage " + stage.Name + ": " + err.Error())
	}

	return nil
}

func (p *Pipeline) executeStage(
	ctx context.Context,
	plan *domain.Plan,
	stage *domain.Stage,
	vars []string,
	span ports.Span,
	opts RunOptions,
) error {
	dir := plan.StageDir(stage)

	if err := p.syncer.Update(ctx, dir, vars, span); err != nil {
		return zerr.With(
			zerr.Wrap(err, domain.ErrUpdateFailed.Error()),
			"stage", stage.Name,
		)
	}

	run := func(argv []string) error {
		cmd := &domain.Command{Argv: argv, Dir: dir}
		if err := p.executor.Execute(ctx, cmd, vars, span, span); err != nil {
			err = zerr.Wrap(err, domain.ErrStageExecutionFailed.Error())
			err = zerr.With(err, "stage", stage.Name)
			return zerr.With(err, "command", strings.Join(argv, " "))
		}
		return nil
	}

	for _, argv := range stage.Build {
		if err := run(argv); err != nil {
			return err
		}
	}

	if !opts.SkipTests {
		for _, argv := range stage.Test {
			if err := run(argv); err != nil {
				return err
			}
		}
	}

	if len(stage.Install) > 0 {
		if err := run(stage.Install); err != nil {
			return err
		}
	}

	return nil
}

// envState accumulates environment overrides across stages. Once a stage
// exports a variable it stays visible for the remainder of the run.
type envState struct {
	vars map[string]string
}

func newEnvState(base map[string]string) *envState {
	vars := make(map[string]string, len(base))
	for k, v := range base {
		vars[k] = v
	}
	return &envState{vars: vars}
}

func (e *envState) apply(overrides map[string]string) {
	for k, v := range overrides {
		e.vars[k] = v
	}
}

// slice returns the accumulated variables as sorted "KEY=VALUE" entries.
func (e *envState) slice() []string {
	out := make([]string, 0, len(e.vars))
	for k, v := range e.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
