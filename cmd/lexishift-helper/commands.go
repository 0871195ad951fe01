package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexishift/lexicore/pkg/dataset"
	"github.com/lexishift/lexicore/pkg/helper"
	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/morph"
	"github.com/lexishift/lexicore/pkg/rulegen"
	"github.com/lexishift/lexicore/pkg/scan"
	"github.com/lexishift/lexicore/pkg/signalqueue"
	"github.com/lexishift/lexicore/pkg/srs"
	"github.com/lexishift/lexicore/pkg/status"
	"github.com/lexishift/lexicore/pkg/storage"
)

// helperFlags are the generation knobs shared by run and once.
type helperFlags struct {
	intervalSeconds     int
	topN                int
	confidenceThreshold float64
	snapshotTargets     int
	snapshotSources     int
	workers             int
}

func (f *helperFlags) register(cmd *cobra.Command, withInterval bool) {
	if withInterval {
		cmd.Flags().IntVar(&f.intervalSeconds, "interval-seconds", 1800, "Seconds between helper ticks (minimum 10)")
	}
	cmd.Flags().IntVar(&f.topN, "set-top-n", 0, "Frequency rows to seed each run (0 = default)")
	cmd.Flags().Float64Var(&f.confidenceThreshold, "confidence-threshold", 0, "Drop rules scoring below this confidence")
	cmd.Flags().IntVar(&f.snapshotTargets, "snapshot-targets", 50, "Targets recorded in the diagnostic snapshot")
	cmd.Flags().IntVar(&f.snapshotSources, "snapshot-sources", 6, "Rules per target recorded in the snapshot")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Pipeline worker count (0 = default of 4)")
}

func (f *helperFlags) config(app *appContext) helper.Config {
	analyzer, err := morph.NewAnalyzer()
	if err != nil {
		app.logger.Warnw("tokenizer unavailable, word packages will lack readings", "error", err)
	}
	return helper.Config{
		Paths: app.paths,
		Options: rulegen.AdapterOptions{
			ConfidenceThreshold: f.confidenceThreshold,
			Workers:             f.workers,
			TopN:                f.topN,
			Morph:               analyzer,
		},
		Interval:        time.Duration(f.intervalSeconds) * time.Second,
		SnapshotTargets: f.snapshotTargets,
		SnapshotSources: f.snapshotSources,
		Logger:          app.logger,
	}
}

func newRunCmd(app *appContext) *cobra.Command {
	flags := &helperFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the periodic rule-generation loop until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app.logger.Infow("helper starting",
				"data_root", app.paths.DataRoot,
				"profile", app.paths.ProfileID,
				"interval_seconds", flags.intervalSeconds)
			helper.Run(ctx, flags.config(app))
			app.logger.Info("helper stopped")
			return nil
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newOnceCmd(app *appContext) *cobra.Command {
	flags := &helperFlags{}
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single rule-generation pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := helper.Tick(cmd.Context(), flags.config(app))
			if st.LastError != "" {
				return fmt.Errorf("tick finished with error: %s", st.LastError)
			}
			app.logger.Infow("tick complete",
				"pair", st.LastPair,
				"rules", st.LastRuleCount,
				"targets", st.LastTargetCount)
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newGrowCmd(app *appContext) *cobra.Command {
	flags := &helperFlags{}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Admit new items into the store from fresh generation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := srs.LoadSettings(app.paths.SrsSettingsPath())
			allowed := settings.AllowedPairSet()
			store := srs.LoadStore(app.paths.StorePath())

			analyzer, err := morph.NewAnalyzer()
			if err != nil {
				app.logger.Warnw("tokenizer unavailable, word packages will lack readings", "error", err)
			}

			var candidates []srs.Candidate
			for _, pair := range langpair.RulegenPairs() {
				if !allowed[pair.String()] {
					continue
				}
				capability, ok := langpair.Lookup(pair)
				if !ok {
					continue
				}
				res := helper.DefaultResolver(capability, app.paths)
				result, err := rulegen.RunJob(cmd.Context(), rulegen.JobConfig{
					Pair:      pair,
					Mode:      capability.RulegenMode,
					Resources: res,
					Options: rulegen.AdapterOptions{
						ConfidenceThreshold: flags.confidenceThreshold,
						Workers:             flags.workers,
						TopN:                flags.topN,
						Morph:               analyzer,
					},
					Logger: app.logger,
				})
				if err != nil {
					app.logger.Warnw("skipping pair", "pair", pair.String(), "error", err)
					continue
				}
				candidates = append(candidates, helper.BuildCandidates(pair, result, analyzer)...)
			}

			planned := srs.PlanGrowth(candidates, store, allowed, settings)
			store = srs.AdmitCandidates(store, planned)
			if err := srs.SaveStore(app.paths.StorePath(), store); err != nil {
				return fmt.Errorf("save store: %w", err)
			}
			for _, c := range planned {
				app.logger.Infow("admitted", "pair", c.Pair.String(), "lemma", c.Lemma, "score", c.FinalScore)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admitted %d of %d candidates\n", len(planned), len(candidates))
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}

func newScanCmd(app *appContext) *cobra.Command {
	var pageURL string
	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Count rule exposures in a text or HTML file and record them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := srs.LoadSettings(app.paths.SrsSettingsPath())
			allowed := settings.AllowedPairSet()
			store := srs.LoadStore(app.paths.StorePath())
			now := time.Now().UTC()

			rules := practiceRules(app, store, allowed, now)
			if len(rules) == 0 {
				return fmt.Errorf("no rulesets found; run the helper first")
			}

			analyzer, err := morph.NewAnalyzer()
			if err != nil {
				app.logger.Warnw("tokenizer unavailable, falling back to substring matching", "error", err)
			}
			scanner := &scan.Scanner{Morph: analyzer}

			exposures, err := scanFile(scanner, args[0], pageURL, rules)
			if err != nil {
				return err
			}

			if err := signalqueue.Append(app.paths.QueuePath(), scan.Events(exposures, now), 0); err != nil {
				return fmt.Errorf("journal exposures: %w", err)
			}
			store = scan.Apply(store, exposures, now)
			if err := srs.SaveStore(app.paths.StorePath(), store); err != nil {
				return fmt.Errorf("save store: %w", err)
			}

			total := 0
			for _, exp := range exposures {
				total += exp.Count
				app.logger.Infow("exposure", "lemma", exp.Lemma, "phrase", exp.SourcePhrase, "count", exp.Count)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d exposures across %d items\n", total, len(exposures))
			return nil
		},
	}
	cmd.Flags().StringVar(&pageURL, "url", "", "Original page URL for HTML extraction")
	return cmd
}

// practiceRules gathers the gated rules of every allowed pair that has a
// ruleset on disk.
func practiceRules(app *appContext, store srs.Store, allowed map[string]bool, now time.Time) []rulegen.VocabRule {
	active := srs.SelectActiveItems(store.Items, now, len(store.Items), allowed)
	var rules []rulegen.VocabRule
	for pair := range allowed {
		var ds dataset.VocabDataset
		if err := storage.ReadJSON(app.paths.RulesetPath(pair), &ds); err != nil {
			continue
		}
		rules = append(rules, srs.SelectRulesForPractice(ds.Rules, active, srs.GateOptions{IncludeAllIfEmpty: true})...)
	}
	return rules
}

func scanFile(scanner *scan.Scanner, path, pageURL string, rules []rulegen.VocabRule) ([]scan.Exposure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		var u *url.URL
		if pageURL != "" {
			u, err = url.Parse(pageURL)
			if err != nil {
				return nil, fmt.Errorf("parse url: %w", err)
			}
		}
		return scanner.ScanHTML(f, u, rules)
	}

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return scanner.ScanText(string(raw), rules), nil
}

func newExportCodeCmd(app *appContext) *cobra.Command {
	var pair string
	cmd := &cobra.Command{
		Use:   "export-code",
		Short: "Print a shareable transfer code for a pair's ruleset",
		RunE: func(cmd *cobra.Command, args []string) error {
			var ds dataset.VocabDataset
			if err := storage.ReadJSON(app.paths.RulesetPath(pair), &ds); err != nil {
				return fmt.Errorf("load ruleset for %s: %w", pair, err)
			}
			code, err := dataset.ExportCode(ds)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
	cmd.Flags().StringVar(&pair, "pair", "en-ja", "Language pair of the ruleset")
	return cmd
}

func newImportCodeCmd(app *appContext) *cobra.Command {
	var (
		pair  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "import-code [code]",
		Short: "Install a ruleset from a transfer code (reads stdin without an argument)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var code string
			if len(args) == 1 {
				code = args[0]
			} else {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read code: %w", err)
				}
				code = strings.TrimSpace(string(raw))
			}

			ds, err := dataset.ImportCode(code)
			if err != nil {
				return err
			}
			path := app.paths.RulesetPath(pair)
			if err := storage.WriteJSONNew(path, ds, force); err != nil {
				return fmt.Errorf("install ruleset: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "installed %d rules to %s\n", len(ds.Rules), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&pair, "pair", "en-ja", "Language pair to install the ruleset under")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing ruleset")
	return cmd
}

func newStatusCmd(app *appContext) *cobra.Command {
	var pair string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the helper status and signal-queue summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := struct {
				Helper status.HelperStatus `json:"helper"`
				Queue  signalqueue.Summary `json:"queue"`
			}{
				Helper: status.Load(app.paths.StatusPath()),
				Queue:  signalqueue.Summarize(app.paths.QueuePath(), pair),
			}
			raw, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
	cmd.Flags().StringVar(&pair, "pair", "", "Restrict the queue summary to one pair")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lexishift-helper %s\n", status.HelperVersion)
		},
	}
}
