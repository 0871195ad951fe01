// Package helper drives the periodic rule-generation loop: every tick it
// walks the allowed language pairs, regenerates rulesets for pairs whose
// resources are present, and records the outcome in the status file.
package helper

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/lexishift/lexicore/pkg/dataset"
	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/profile"
	"github.com/lexishift/lexicore/pkg/rulegen"
	"github.com/lexishift/lexicore/pkg/srs"
	"github.com/lexishift/lexicore/pkg/status"
	"github.com/lexishift/lexicore/pkg/storage"
)

// MinInterval is the floor on the tick interval.
const MinInterval = 10 * time.Second

// DefaultInterval is the stock tick interval.
const DefaultInterval = 30 * time.Minute

// Default file names inside the language pack directory.
const (
	JMdictFileName   = "JMdict_e.xml"
	FreeDictFileName = "deu-eng.tei"
)

// ResourceResolver maps a pair capability onto concrete resource paths.
type ResourceResolver func(cap langpair.Capability, paths profile.Paths) rulegen.Resources

// DefaultResolver places dictionaries in the language pack directory and
// frequency databases in the frequency pack directory.
func DefaultResolver(cap langpair.Capability, paths profile.Paths) rulegen.Resources {
	var res rulegen.Resources
	if cap.RequiresJMdict {
		res.JMdictPath = filepath.Join(paths.LanguagePacksDir(), JMdictFileName)
	}
	if cap.RequiresFreeDict {
		res.FreeDictPath = filepath.Join(paths.LanguagePacksDir(), FreeDictFileName)
	}
	if cap.RequiresFrequency && cap.DefaultFrequencyDB != "" {
		res.FrequencyDB = filepath.Join(paths.FrequencyPacksDir(), cap.DefaultFrequencyDB)
	}
	return res
}

// Config describes one helper instance.
type Config struct {
	Paths    profile.Paths
	Options  rulegen.AdapterOptions
	Interval time.Duration

	SnapshotTargets int
	SnapshotSources int

	Resolver ResourceResolver
	Logger   *zap.SugaredLogger
}

func (c Config) normalized() Config {
	if c.Interval < MinInterval {
		c.Interval = MinInterval
	}
	if c.Resolver == nil {
		c.Resolver = DefaultResolver
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}
	return c
}

// resourcesPresent reports whether every path the capability requires exists
// on disk. Pairs with absent resources are skipped, not failed.
func resourcesPresent(cap langpair.Capability, res rulegen.Resources) bool {
	paths := make([]string, 0, 3)
	if cap.RequiresJMdict {
		paths = append(paths, res.JMdictPath)
	}
	if cap.RequiresFreeDict {
		paths = append(paths, res.FreeDictPath)
	}
	if cap.RequiresFrequency {
		paths = append(paths, res.FrequencyDB)
	}
	for _, p := range paths {
		if p == "" {
			return false
		}
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// Tick runs one pass over the allowed pairs and persists the resulting
// status record. Errors are captured into the record rather than returned;
// the loop must survive any single bad tick.
func Tick(ctx context.Context, cfg Config) status.HelperStatus {
	cfg = cfg.normalized()
	log := cfg.Logger

	st := status.Load(cfg.Paths.StatusPath())
	st.LastRunAt = storage.Now()
	st.LastError = ""

	settings := srs.LoadSettings(cfg.Paths.SrsSettingsPath())
	allowed := settings.AllowedPairSet()

	for _, pair := range langpair.RulegenPairs() {
		if ctx.Err() != nil {
			break
		}
		if !allowed[pair.String()] {
			continue
		}
		capability, ok := langpair.Lookup(pair)
		if !ok || !capability.SupportsRulegen() {
			continue
		}
		res := cfg.Resolver(capability, cfg.Paths)
		if !resourcesPresent(capability, res) {
			log.Debugw("skipping pair, resources absent", "pair", pair.String())
			continue
		}

		result, err := rulegen.RunJob(ctx, rulegen.JobConfig{
			Pair:            pair,
			Mode:            capability.RulegenMode,
			Resources:       res,
			Options:         cfg.Options,
			SnapshotTargets: cfg.SnapshotTargets,
			SnapshotSources: cfg.SnapshotSources,
			Logger:          log,
		})
		if err != nil {
			log.Errorw("rulegen failed", "pair", pair.String(), "error", err)
			st.LastError = err.Error()
			continue
		}

		if err := storage.WriteJSON(cfg.Paths.RulesetPath(pair.String()), dataset.NewVocabDataset(result.Rules)); err != nil {
			log.Errorw("ruleset write failed", "pair", pair.String(), "error", err)
			st.LastError = err.Error()
			continue
		}
		if err := storage.WriteJSON(cfg.Paths.SnapshotPath(pair.String()), result.Snapshot); err != nil {
			log.Errorw("snapshot write failed", "pair", pair.String(), "error", err)
			st.LastError = err.Error()
			continue
		}

		st.LastPair = pair.String()
		st.LastRuleCount = len(result.Rules)
		st.LastTargetCount = result.TargetCount
	}

	if err := status.Save(cfg.Paths.StatusPath(), st); err != nil {
		log.Errorw("status write failed", "error", err)
	}
	return st
}

// Run ticks until the context is cancelled. The sleep between ticks is the
// only cancellation point; a tick in progress finishes first.
func Run(ctx context.Context, cfg Config) {
	cfg = cfg.normalized()
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		Tick(ctx, cfg)
		timer.Reset(cfg.Interval)
	}
}
