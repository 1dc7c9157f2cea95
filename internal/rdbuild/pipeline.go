package rdbuild

import (
	"context"
	"fmt"
)

// Mode selects which pipeline variant runs.
type Mode int

const (
	// ModeFull is the complete pipeline: checks, permission repair, clean,
	// install, build, verify, link and the optional archive/publish tail.
	ModeFull Mode = iota
	// ModeQuick skips dependency installation: clean dists, build, global
	// install.
	ModeQuick
)

type stagePolicy int

const (
	// policyFatal aborts the pipeline with a non-zero exit.
	policyFatal stagePolicy = iota
	// policyWarn reports the failure and keeps going.
	policyWarn
)

type stage struct {
	name     string
	policy   stagePolicy
	critical bool // interrupting mid-flight would leave npm state half-mutated
	run      func(p *pipeline) error
}

// pipeline threads the little state there is between stages: the mode, the
// install marker sampled once at start, and the archive path handed from the
// package stage to the publish stage.
type pipeline struct {
	ctx          context.Context
	cfg          *Config
	mode         Mode
	user         Runner
	root         Runner
	repair       *ownershipRepairer
	firstInstall bool
	archivePath  string
}

func newPipeline(ctx context.Context, cfg *Config, mode Mode, user, root Runner) *pipeline {
	return &pipeline{
		ctx:          ctx,
		cfg:          cfg,
		mode:         mode,
		user:         user,
		root:         root,
		repair:       newOwnershipRepairer(root),
		firstInstall: isFirstInstall(),
	}
}

// stages returns the ordered stage table for the pipeline's mode. The
// structure check runs before the environment probe so a wrong working
// directory aborts before any subprocess is spawned.
func (p *pipeline) stages() []stage {
	if p.mode == ModeQuick {
		return []stage{
			{"structure check", policyFatal, false, func(p *pipeline) error { return checkStructure(p.mode) }},
			{"clean build outputs", policyWarn, false, func(p *pipeline) error { return quickClean(p.root) }},
			{"build project", policyFatal, false, func(p *pipeline) error { return p.user.Run(npmCommand("run", "build")) }},
			{"global install", policyFatal, true, func(p *pipeline) error { return installGlobally(p.root, p.user) }},
		}
	}

	return []stage{
		{"structure check", policyFatal, false, func(p *pipeline) error { return checkStructure(p.mode) }},
		{"environment check", policyFatal, false, func(p *pipeline) error { return checkEnvironment(p.user) }},
		{"permission repair", policyWarn, false, func(p *pipeline) error { return p.repair.Repair(inRoot("dist")) }},
		{"clean", policyWarn, false, func(p *pipeline) error { return cleanStage(p.user, p.firstInstall) }},
		{"npm cache clean", policyWarn, false, func(p *pipeline) error { return p.user.Run(npmCommand("cache", "clean", "--force")) }},
		{"install dependencies", policyFatal, true, func(p *pipeline) error { return p.user.Run(npmCommand("install")) }},
		{"build project", policyFatal, false, func(p *pipeline) error { return p.user.Run(npmCommand("run", "build")) }},
		{"verify artifacts", policyWarn, false, func(p *pipeline) error { return verifyArtifacts() }},
		{"global link", policyWarn, true, func(p *pipeline) error { return linkGlobally(p.root, p.user) }},
		{"package bundle", policyWarn, false, func(p *pipeline) error {
			path, err := packageBundle()
			p.archivePath = path
			return err
		}},
		{"publish archive", policyWarn, false, func(p *pipeline) error { return publishArchive(p.ctx, p.cfg, p.archivePath) }},
	}
}

// run executes the stage table in order, applying each stage's failure
// policy. Warn-policy failures are reported and skipped over; fatal failures
// stop the pipeline immediately.
func (p *pipeline) run(stages []stage) error {
	for i, st := range stages {
		if err := p.ctx.Err(); err != nil {
			return fmt.Errorf("pipeline interrupted: %w", err)
		}

		colArrow.Print("-> ")
		colNote.Printf("Step %d: %s\n", i+1, st.name)

		if st.critical {
			setCritical(true)
		}
		err := st.run(p)
		if st.critical {
			setCritical(false)
		}

		if err != nil {
			if st.policy == policyFatal {
				cPrintf(colError, "%s failed: %v\n", st.name, err)
				return fmt.Errorf("%s failed: %w", st.name, err)
			}
			cPrintf(colWarn, "%s failed: %v (continuing)\n", st.name, err)
		}
	}
	return nil
}

// RunPipeline drives one full or quick build of the checkout in the
// configured project root.
func RunPipeline(ctx context.Context, cfg *Config, mode Mode) error {
	p := newPipeline(ctx, cfg, mode, UserExec, RootExec)
	if p.firstInstall && mode == ModeFull {
		cPrintln(colInfo, "First install detected (no node_modules)")
	}
	if err := p.run(p.stages()); err != nil {
		return err
	}

	colArrow.Print("-> ")
	colSuccess.Println("Build complete. Run the CLI with: rdmind")
	return nil
}

// PrintVersion prints the build identity, set at link time.
func PrintVersion() {
	fmt.Printf("rdbuild %s (%s, built %s)\n", version, arch, buildDate)
}
