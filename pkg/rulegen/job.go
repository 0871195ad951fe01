package rulegen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/storage"
)

// defaultTopN bounds how many frequency rows seed a generation run when the
// caller does not override it.
const defaultTopN = 1000

// JobConfig describes one rule-generation run for one pair.
type JobConfig struct {
	Pair      langpair.Pair
	Mode      langpair.RulegenMode
	Resources Resources
	Options   AdapterOptions

	// SnapshotTargets / SnapshotSources bound the diagnostic snapshot:
	// at most this many targets, each with at most this many rules.
	SnapshotTargets int
	SnapshotSources int

	Logger *zap.SugaredLogger
}

// JobResult is what one run produced.
type JobResult struct {
	Rules       []VocabRule
	Targets     []string
	TargetCount int
	Snapshot    Snapshot
}

// Snapshot is the diagnostic record written next to a ruleset: the first N
// targets with their best rules, enough to eyeball a generation run without
// loading the full ruleset.
type Snapshot struct {
	Pair        string            `json:"pair"`
	GeneratedAt storage.Timestamp `json:"generated_at"`
	RuleCount   int               `json:"rule_count"`
	TargetCount int               `json:"target_count"`
	Targets     []SnapshotTarget  `json:"targets"`
}

// SnapshotTarget is one target lemma with a bounded sample of its rules.
type SnapshotTarget struct {
	Lemma string      `json:"lemma"`
	Rules []VocabRule `json:"rules"`
}

// RunJob builds the pair's pipeline, generates rules for its seed targets,
// and assembles the snapshot. Required-resource failures surface before any
// generation work starts.
func RunJob(ctx context.Context, cfg JobConfig) (*JobResult, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var (
		pipeline *Pipeline
		targets  []string
		err      error
	)
	switch cfg.Mode {
	case langpair.ModeJaEn:
		pipeline, targets, _, err = buildJaEn(cfg.Resources, cfg.Options)
	case langpair.ModeEnDe:
		pipeline, targets, _, err = buildEnDe(cfg.Resources, cfg.Options)
	default:
		return nil, fmt.Errorf("no rulegen adapter for mode %q", cfg.Mode)
	}
	if err != nil {
		return nil, err
	}

	log.Infow("rulegen start", "pair", cfg.Pair.String(), "targets", len(targets))
	rules := pipeline.Generate(ctx, targets)
	log.Infow("rulegen done", "pair", cfg.Pair.String(), "rules", len(rules))

	result := &JobResult{
		Rules:       rules,
		Targets:     targets,
		TargetCount: len(targets),
	}
	result.Snapshot = buildSnapshot(cfg, result)
	return result, nil
}

func buildSnapshot(cfg JobConfig, result *JobResult) Snapshot {
	maxTargets := cfg.SnapshotTargets
	if maxTargets <= 0 {
		maxTargets = 50
	}
	maxSources := cfg.SnapshotSources
	if maxSources <= 0 {
		maxSources = 6
	}

	byTarget := make(map[string][]VocabRule)
	for _, r := range result.Rules {
		byTarget[r.Replacement] = append(byTarget[r.Replacement], r)
	}

	snap := Snapshot{
		Pair:        cfg.Pair.String(),
		GeneratedAt: storage.Now(),
		RuleCount:   len(result.Rules),
		TargetCount: result.TargetCount,
	}
	for _, target := range result.Targets {
		if len(snap.Targets) >= maxTargets {
			break
		}
		rules := byTarget[target]
		if len(rules) == 0 {
			continue
		}
		if len(rules) > maxSources {
			rules = rules[:maxSources]
		}
		snap.Targets = append(snap.Targets, SnapshotTarget{Lemma: target, Rules: rules})
	}
	return snap
}
