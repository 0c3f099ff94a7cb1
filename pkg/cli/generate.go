package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen"
	"github.com/SpineEventEngine/base-sub010/pkg/codegen/artifacts"
	"github.com/SpineEventEngine/base-sub010/pkg/codegen/cache"
	"github.com/SpineEventEngine/base-sub010/pkg/config"
	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/enrichment"
	"github.com/SpineEventEngine/base-sub010/pkg/fieldref"
	"github.com/SpineEventEngine/base-sub010/pkg/observability"
)

const byOptionCacheSize = 1024

var (
	// ErrNoInput is returned when neither sources nor a descriptor set are given
	ErrNoInput = errors.New("either --proto-path or --descriptor-set is required")
	// ErrConflictingInput is returned when both sources and a descriptor set are given
	ErrConflictingInput = errors.New("--proto-path and --descriptor-set are mutually exclusive")
	// ErrNoOutput is returned when artifacts would be written nowhere
	ErrNoOutput = errors.New("--out is required unless --dry-run is set")
)

type generateOptions struct {
	descriptorSet string
	protoPaths    []string
	out           string
	workers       int
	watch         bool
	debounce      time.Duration
	dryRun        bool
	metricsFile   string
	otlpEndpoint  string
}

func newGenerateCommand(a *app) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [proto files...]",
		Short: "Generate insertion-point artifacts for proto messages",
		Long: `Generate runs the configured tasks over every message of the input files
and writes the resulting artifacts to the output directory. Insertions are
spliced into Java sources already present there, as protoc does.

Proto files are resolved against --proto-path; without arguments every
.proto file under the proto paths is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.descriptorSet, "descriptor-set", "", "Binary FileDescriptorSet including imports")
	flags.StringSliceVarP(&opts.protoPaths, "proto-path", "I", nil, "Import root of the proto sources (repeatable)")
	flags.StringVarP(&opts.out, "out", "o", "", "Output directory of the generated Java sources")
	flags.IntVarP(&opts.workers, "workers", "w", 1, "Number of messages processed concurrently")
	flags.BoolVar(&opts.watch, "watch", false, "Regenerate when proto sources change")
	flags.DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "Delay before regenerating after a change")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the artifacts instead of writing them")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")
	flags.StringVar(&opts.otlpEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint for traces")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, opts *generateOptions, args []string) error {
	if err := opts.validate(); err != nil {
		return err
	}

	cfg := a.cfg
	if cmd.Flags().Changed("workers") {
		cfg.Generation.Workers = opts.workers
	}
	if opts.metricsFile != "" {
		cfg.Observability.MetricsFile = opts.metricsFile
	}
	if opts.otlpEndpoint != "" {
		cfg.Observability.OTelEndpoint = opts.otlpEndpoint
	}

	ctx := cmd.Context()
	shutdown, err := observability.InitTracing(ctx, observability.OTelConfig{
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    "spine-mc",
		ServiceVersion: Version,
		Insecure:       cfg.Observability.OTelInsecure,
	}, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			a.log.WithError(err).Warn("Failed to shutdown tracing")
		}
	}()

	g, err := newGenerator(cfg, opts, a.log, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if err := g.run(ctx, args); err != nil {
		if !opts.watch {
			return err
		}
		a.log.WithError(err).Error("Generation failed")
	}
	if opts.watch {
		return g.watch(ctx, args)
	}
	return nil
}

func (o *generateOptions) validate() error {
	switch {
	case o.descriptorSet == "" && len(o.protoPaths) == 0:
		return ErrNoInput
	case o.descriptorSet != "" && len(o.protoPaths) > 0:
		return ErrConflictingInput
	case o.out == "" && !o.dryRun:
		return ErrNoOutput
	case o.watch && len(o.protoPaths) == 0:
		return fmt.Errorf("--watch requires --proto-path")
	case o.workers < 0:
		return fmt.Errorf("--workers must not be negative")
	}
	return nil
}

// generator runs generation passes with one task set
type generator struct {
	cfg      *config.Config
	opts     *generateOptions
	log      logrus.FieldLogger
	out      io.Writer
	tasks    *codegen.Tasks
	metrics  *observability.Metrics
	resolver *enrichment.Resolver

	// results of earlier passes, so unchanged inputs are not applied twice
	results   *cache.Cache
	cacheOpts map[string]string
}

func newGenerator(cfg *config.Config, opts *generateOptions, log logrus.FieldLogger, out io.Writer) (*generator, error) {
	log = observability.OrDiscard(log)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	tasks, err := cfg.Tasks(nil, &codegen.Options{Log: log, Metrics: metrics})
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfgYAML, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	g := &generator{
		cfg:     cfg,
		opts:    opts,
		log:     log,
		out:     out,
		tasks:   tasks,
		metrics: metrics,
		results: cache.New(nil),
		cacheOpts: map[string]string{
			"config":  string(cfgYAML),
			"out":     opts.out,
			"version": Version,
		},
	}
	if cfg.Enrichment.Validate {
		parser, err := fieldref.NewParser(byOptionCacheSize)
		if err != nil {
			return nil, err
		}
		if g.resolver, err = enrichment.NewResolver(parser, log); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// run performs one generation pass
func (g *generator) run(ctx context.Context, files []string) error {
	start := time.Now()
	set, err := g.load(ctx, files)
	if err != nil {
		return err
	}

	key, err := cache.NewKey(set, g.cacheOpts)
	if err != nil {
		return err
	}
	if arts, err := g.results.Get(key); err == nil {
		g.log.WithField("artifacts", len(arts)).Info("Inputs unchanged, skipping generation")
		if g.opts.dryRun {
			return printArtifacts(g.out, arts)
		}
		return nil
	}

	if g.resolver != nil {
		enrichments, err := g.resolver.Resolve(set)
		if err != nil {
			return err
		}
		g.log.WithField("enrichments", len(enrichments)).Debug("Enrichments resolved")
	}

	arts, err := g.tasks.GenerateParallel(ctx, set, g.cfg.Generation.Workers)
	if err != nil {
		return err
	}

	if g.opts.dryRun {
		if err := printArtifacts(g.out, arts); err != nil {
			return err
		}
	} else if err := artifacts.NewWriter(g.opts.out, g.log).Write(ctx, arts); err != nil {
		return err
	}

	if err := g.results.Set(key, arts); err != nil {
		return err
	}

	if path := g.cfg.Observability.MetricsFile; path != "" {
		if err := g.metrics.WriteTextfile(path); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	g.log.WithFields(logrus.Fields{
		"messages":  len(set.Messages()),
		"artifacts": len(arts),
		"duration":  time.Since(start).String(),
	}).Info("Generation completed")
	return nil
}

func (g *generator) load(ctx context.Context, files []string) (*descriptors.FileSet, error) {
	loadOpts := append(g.cfg.LoadOptions(), descriptors.WithLogger(g.log))
	if g.opts.descriptorSet != "" {
		if len(files) > 0 {
			loadOpts = append(loadOpts, descriptors.WithFiles(files...))
		}
		return descriptors.LoadDescriptorSet(g.opts.descriptorSet, loadOpts...)
	}

	if len(files) == 0 {
		var err error
		if files, err = discoverProtoFiles(g.opts.protoPaths); err != nil {
			return nil, err
		}
	}
	return descriptors.CompileDir(ctx, g.opts.protoPaths, files, loadOpts...)
}

// discoverProtoFiles lists the .proto files under the roots relative to their root
func discoverProtoFiles(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".proto" {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			seen[filepath.ToSlash(rel)] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

func printArtifacts(w io.Writer, arts []artifacts.Artifact) error {
	for _, a := range arts {
		if _, err := fmt.Fprintf(w, "%s\n%s\n", a, a.Content); err != nil {
			return err
		}
	}
	return nil
}
