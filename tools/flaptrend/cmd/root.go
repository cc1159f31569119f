// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd implements the flaptrend command line.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/openconfig/flaptrend/internal/publish"
	"github.com/openconfig/flaptrend/internal/report"
	"github.com/openconfig/flaptrend/internal/resultdir"
	"github.com/openconfig/flaptrend/internal/rundata"
	"github.com/openconfig/flaptrend/internal/trend"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	errUsage     = errors.New("expected exactly one results directory")
	errNoRecords = errors.New("no test results could be loaded")
)

var (
	// now is the clock used for the report header.
	now = time.Now
	// newPublisher builds the publisher for the configured destinations.
	newPublisher = cloudPublisher
)

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	// glog flags are parsed by cobra; this only marks flag.CommandLine parsed.
	flag.CommandLine.Parse([]string{})

	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		glog.Exitf("flaptrend: %v", err)
	}
	glog.Flush()
}

// NewRootCmd returns the flaptrend command.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "flaptrend <results_directory>",
		Short: "Track OSPF convergence performance across flap test runs",
		Long: `flaptrend reads the OSPF flap test results stored under a results
directory, one ospf_flap_<timestamp>/ospf_flap_results.json per run, and
reports convergence time trends per device interface along with the overall
stability of the network.

The text report is written to <results_directory>/trend_analysis.txt and, when
at least one interface has two or more measurements, a chart page to
<results_directory>/trend_chart.html.`,
		Example:       "  flaptrend results/",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfgFile := v.GetString("config")
			if cfgFile == "" {
				return nil
			}
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config %s: %w", cfgFile, err)
			}
			glog.Infof("Using config file %s", v.ConfigFileUsed())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) != 1 {
				fmt.Fprint(out, cmd.UsageString())
				return errUsage
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			dir := args[0]
			err = run(cmd.Context(), out, dir, cfg)
			if errors.Is(err, resultdir.ErrNoDir) || errors.Is(err, resultdir.ErrNoResults) {
				fmt.Fprintf(out, "No test result files found in %s\n\n", dir)
				fmt.Fprint(out, cmd.UsageString())
			}
			return err
		},
	}

	addFlags(cmd.Flags())
	if err := bindFlags(v, cmd.Flags()); err != nil {
		panic(fmt.Sprintf("binding flags: %v", err))
	}

	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	return cmd
}

// addFlags registers the command flags.  Every flag can also be set in the
// config file or as a FLAPTREND_<NAME> environment variable.
func addFlags(f *pflag.FlagSet) {
	d := trend.DefaultThresholds()
	f.String("config", "", "Config file setting any of the flags below by name.")
	f.String("pattern", resultdir.DefaultPattern, "Glob, relative to the results directory, matching the result files of each run.")
	f.Float64("sla_seconds", d.SLA, "Average convergence time in seconds above which a warning is raised.")
	f.Float64("drbdr_ratio", d.DRBDRRatio, "Ratio of the DR/BDR threshold basis above which role instability is reported.")
	f.String("drbdr_basis", string(d.DRBDRBasis), `What drbdr_ratio scales: "summary_fields" or "total_tests".`)
	f.String("summary", "", "Also write a JSON or YAML (by extension) summary to this path; relative paths are under the results directory.")
	f.String("badge", "", "Also write an SVG status badge to this path; relative paths are under the results directory.")
	f.String("gcs_bucket", "", "Cloud Storage bucket to upload the outputs to.")
	f.String("gcs_prefix", "flaptrend", "Object name prefix for uploads; outputs are stored under <prefix>/<analysis id>/.")
	f.String("pubsub_project", "", "Google Cloud project of the badge status topic.")
	f.String("pubsub_topic", "", "Pub/Sub topic receiving the badge status.")
}

// bindFlags makes the flags in f, FLAPTREND_* environment variables and the
// config file the sources of v.
func bindFlags(v *viper.Viper, f *pflag.FlagSet) error {
	if err := v.BindPFlags(f); err != nil {
		return err
	}
	v.SetEnvPrefix("flaptrend")
	v.AutomaticEnv()
	return nil
}

// config is the resolved command configuration.
type config struct {
	Pattern    string
	Thresholds trend.Thresholds

	Summary string
	Badge   string

	GCSBucket     string
	GCSPrefix     string
	PubSubProject string
	PubSubTopic   string
}

func loadConfig(v *viper.Viper) (*config, error) {
	basis, err := trend.ParseBasis(v.GetString("drbdr_basis"))
	if err != nil {
		return nil, err
	}
	cfg := &config{
		Pattern: v.GetString("pattern"),
		Thresholds: trend.Thresholds{
			SLA:        v.GetFloat64("sla_seconds"),
			DRBDRRatio: v.GetFloat64("drbdr_ratio"),
			DRBDRBasis: basis,
		},
		Summary:       v.GetString("summary"),
		Badge:         v.GetString("badge"),
		GCSBucket:     v.GetString("gcs_bucket"),
		GCSPrefix:     v.GetString("gcs_prefix"),
		PubSubProject: v.GetString("pubsub_project"),
		PubSubTopic:   v.GetString("pubsub_topic"),
	}
	if cfg.Thresholds.SLA < 0 || cfg.Thresholds.DRBDRRatio < 0 {
		return nil, fmt.Errorf("thresholds must not be negative, got sla_seconds=%v drbdr_ratio=%v", cfg.Thresholds.SLA, cfg.Thresholds.DRBDRRatio)
	}
	if (cfg.PubSubProject == "") != (cfg.PubSubTopic == "") {
		return nil, errors.New("pubsub_project and pubsub_topic must be set together")
	}
	if cfg.PubSubTopic != "" && (cfg.Badge == "" || cfg.GCSBucket == "") {
		return nil, errors.New("pubsub_topic announces the uploaded badge and needs badge and gcs_bucket")
	}
	return cfg, nil
}

// publishing reports whether any upload destination is configured.
func (c *config) publishing() bool {
	return c.GCSBucket != "" || c.PubSubTopic != ""
}

// outputPath resolves an optional output path against the results directory.
func outputPath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// run analyzes the results under dir and writes the outputs.
func run(ctx context.Context, out io.Writer, dir string, cfg *config) error {
	paths, err := resultdir.Discover(dir, cfg.Pattern)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Found %d test result files\n", len(paths))

	runs, skipped := resultdir.Load(paths)
	var skippedPaths []string
	for _, s := range skipped {
		fmt.Fprintf(out, "Warning: Could not load %s: %v\n", s.Path, s.Err)
		skippedPaths = append(skippedPaths, s.Path)
	}

	a := trend.Analyze(runs, cfg.Thresholds)
	if a.Stability.TotalTests == 0 {
		fmt.Fprintf(out, "No test results could be loaded from %s\n", dir)
		return fmt.Errorf("%w from %s", errNoRecords, dir)
	}
	a.ID = uuid.NewString()
	a.Generated = now()
	fmt.Fprintf(out, "Loaded %d individual test results\n", a.Stability.TotalTests)
	glog.Infof("Analysis %s: %d runs, %d trend keys, verdict %s", a.ID, len(a.Runs), len(a.Trends), a.Verdict())

	text := report.Text(a)
	fmt.Fprintf(out, "\n%s\n", text)

	var objs []publish.Object
	save := func(p string, data []byte, badge bool) error {
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", p, err)
		}
		name := filepath.Base(p)
		objs = append(objs, publish.Object{
			Name:        name,
			ContentType: report.ContentType(name),
			Data:        data,
			Badge:       badge,
		})
		return nil
	}

	reportPath := filepath.Join(dir, report.TextName)
	if err := save(reportPath, []byte(text), false); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n📄 Trend report saved: %s\n", reportPath)

	if len(a.Trends) > 0 {
		var buf bytes.Buffer
		if err := report.WriteChart(&buf, a); err != nil {
			return fmt.Errorf("rendering chart: %w", err)
		}
		chartPath := filepath.Join(dir, report.ChartName)
		if err := save(chartPath, buf.Bytes(), false); err != nil {
			return err
		}
		fmt.Fprintf(out, "📊 Trend chart saved: %s\n", chartPath)
	}

	if cfg.Summary != "" {
		p := outputPath(dir, cfg.Summary)
		var buf bytes.Buffer
		s := report.NewSummary(a, skippedPaths, rundata.Properties(dir))
		if err := report.WriteSummary(&buf, s, report.FormatFor(p)); err != nil {
			return fmt.Errorf("rendering summary: %w", err)
		}
		if err := save(p, buf.Bytes(), false); err != nil {
			return err
		}
		fmt.Fprintf(out, "Summary saved: %s\n", p)
	}

	if cfg.Badge != "" {
		p := outputPath(dir, cfg.Badge)
		var buf bytes.Buffer
		if err := report.WriteBadge(&buf, a); err != nil {
			return fmt.Errorf("rendering badge: %w", err)
		}
		if err := save(p, buf.Bytes(), true); err != nil {
			return err
		}
		fmt.Fprintf(out, "Badge saved: %s\n", p)
	}

	if cfg.publishing() {
		p, closeFn, err := newPublisher(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connecting publishers: %w", err)
		}
		defer closeFn()
		if err := p.Publish(ctx, a.ID, string(a.Verdict()), objs); err != nil {
			return fmt.Errorf("publishing analysis %s: %w", a.ID, err)
		}
		fmt.Fprintf(out, "Published analysis %s\n", a.ID)
	}

	fmt.Fprintln(out, "\n✅ Trend analysis complete!")
	return nil
}

// cloudPublisher connects to Cloud Storage and Pub/Sub as configured.  The
// returned function releases the clients.
func cloudPublisher(ctx context.Context, cfg *config) (*publish.Publisher, func(), error) {
	p := &publish.Publisher{
		Prefix:   cfg.GCSPrefix,
		Attempts: 3,
		Backoff:  250 * time.Millisecond,
	}
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				glog.Warningf("Closing publisher: %v", err)
			}
		}
	}

	if cfg.GCSBucket != "" {
		u, err := publish.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, nil, err
		}
		p.Uploader = u
		closers = append(closers, u.Close)
	}
	if cfg.PubSubTopic != "" {
		n, err := publish.NewPubSubNotifier(ctx, cfg.PubSubProject, cfg.PubSubTopic)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		p.Notifier = n
		closers = append(closers, n.Close)
	}
	return p, closeAll, nil
}
