package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"rhythmoji-server/modules/background"
	"rhythmoji-server/modules/planner"
)

// Generation modes.
const (
	ModeStaged = "staged" // five mask-scoped stages
	ModeSingle = "single" // one combined edit + background strip
)

// regionEditor applies one prompt-guided edit and returns the output path,
// or "" on failure. An empty model selects the configured default.
type regionEditor interface {
	ApplyEdit(ctx context.Context, imagePath, prompt, maskPath, model string) string
}

// RunOptions tune a single pipeline run.
type RunOptions struct {
	Mode        string
	Model       string // image model override, "" = configured default
	Transparent bool
	OnStage     func(stage string) // optional progress callback
}

type stage struct {
	name   string
	mask   string
	prompt func(plan planner.StylePlan) string
	skip   func(plan planner.StylePlan) bool
}

// The ordered staged sequence: head → torso → legs+shoes → accessory.
var stages = []stage{
	{
		name:   "head",
		mask:   "head.png",
		prompt: func(p planner.StylePlan) string { return headPrompt(p.Animal) },
		skip:   func(p planner.StylePlan) bool { return p.Animal == "" },
	},
	{
		name:   "torso",
		mask:   "torso.png",
		prompt: func(p planner.StylePlan) string { return torsoPrompt(p.Upper) },
		skip:   func(p planner.StylePlan) bool { return p.Upper == "" },
	},
	{
		name:   "legs",
		mask:   "legs.png",
		prompt: func(p planner.StylePlan) string { return legsPrompt(p.Lower, p.Shoes) },
		skip:   func(p planner.StylePlan) bool { return p.Lower == "" && p.Shoes == "" },
	},
	{
		name:   "accessory",
		mask:   "accessory.png",
		prompt: func(p planner.StylePlan) string { return accessoryPrompt(p.Accessory) },
		skip:   func(p planner.StylePlan) bool { return p.Accessory == "" },
	},
}

type Orchestrator struct {
	editor    regionEditor
	outputDir string
	masksDir  string
}

func NewOrchestrator(editor regionEditor, outputDir, masksDir string) *Orchestrator {
	return &Orchestrator{
		editor:    editor,
		outputDir: outputDir,
		masksDir:  masksDir,
	}
}

// Run executes the edit pipeline over basePath and writes the final asset
// into the output directory. A failed step never advances the current image
// and never aborts the run; if every step fails a single combined edit is
// attempted, and failing that the unmodified base image is copied through.
// Only filesystem errors in Finalize surface as errors.
func (o *Orchestrator) Run(ctx context.Context, basePath string, plan planner.StylePlan, opts RunOptions) (string, string, error) {
	if opts.Mode == ModeSingle {
		return o.runSingle(ctx, basePath, plan, opts)
	}

	current := basePath

	for _, st := range stages {
		if st.skip(plan) {
			log.Printf("⏭️ [Pipeline] Stage %s skipped (empty slot)", st.name)
			continue
		}

		notifyStage(opts, st.name)

		maskPath := filepath.Join(o.masksDir, st.mask)
		log.Printf("🎨 [Pipeline] Stage %s editing %s", st.name, current)

		result := o.editor.ApplyEdit(ctx, current, st.prompt(plan), maskPath, opts.Model)
		if result == "" {
			log.Printf("⚠️ [Pipeline] Stage %s produced no result, keeping prior image", st.name)
			continue
		}
		current = result
	}

	// Every stage failed: one unscoped combined edit as a last resort.
	if current == basePath {
		log.Printf("⚠️ [Pipeline] All stages failed, attempting combined edit")
		notifyStage(opts, "combined")

		result := o.editor.ApplyEdit(ctx, basePath,
			combinedPrompt(plan.Animal, plan.Upper, plan.Lower, plan.Shoes, plan.Accessory), "", opts.Model)
		if result != "" {
			current = result
		}
	}

	return o.finalize(current, plan, opts)
}

// runSingle collapses the state machine to SingleEdit → BackgroundStrip →
// Finalize with the same keep-prior discipline.
func (o *Orchestrator) runSingle(ctx context.Context, basePath string, plan planner.StylePlan, opts RunOptions) (string, string, error) {
	notifyStage(opts, "combined")

	current := basePath
	result := o.editor.ApplyEdit(ctx, basePath,
		combinedPrompt(plan.Animal, plan.Upper, plan.Lower, plan.Shoes, plan.Accessory), "", opts.Model)
	if result != "" {
		current = result
	} else {
		log.Printf("⚠️ [Pipeline] Combined edit produced no result, keeping base image")
	}

	opts.Transparent = true
	return o.finalize(current, plan, opts)
}

// finalize copies the current image into the output directory under a unique
// name. This is the only step with side effects outside the temp-file area.
func (o *Orchestrator) finalize(current string, plan planner.StylePlan, opts RunOptions) (string, string, error) {
	notifyStage(opts, "finalize")

	data, err := os.ReadFile(current)
	if err != nil {
		return "", "", fmt.Errorf("failed to read pipeline image %s: %w", current, err)
	}

	if opts.Transparent {
		notifyStage(opts, "background")
		stripped, err := background.Strip(data)
		if err != nil {
			log.Printf("⚠️ [Pipeline] Background strip failed, keeping background: %v", err)
		} else {
			data = stripped
		}
	}

	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outName := fmt.Sprintf("lego_%s_%s.png",
		strings.ReplaceAll(plan.Animal, " ", "_"), uuid.New().String())
	outPath := filepath.Join(o.outputDir, outName)

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write asset: %w", err)
	}

	log.Printf("✅ [Pipeline] Asset written: %s (%d bytes)", outPath, len(data))
	return outPath, "/rhythmojis/" + outName, nil
}

func notifyStage(opts RunOptions, name string) {
	if opts.OnStage != nil {
		opts.OnStage(name)
	}
}
