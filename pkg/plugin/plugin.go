// Package plugin runs spine-mc as a protoc plugin.
//
// protoc passes the plugin parameter given with --spine-mc_opt as a comma
// separated list of key=value pairs:
//
//	protoc --plugin=protoc-gen-spine-mc \
//		--java_out=build/java \
//		--spine-mc_out=build/java \
//		--spine-mc_opt=config=spine-mc.yaml,workers=4 \
//		acme/sales/*.proto
//
// The plugin answers with insertion-point files that protoc splices into the
// output of the Java generator.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen"
	"github.com/SpineEventEngine/base-sub010/pkg/codegen/artifacts"
	"github.com/SpineEventEngine/base-sub010/pkg/config"
	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/enrichment"
	"github.com/SpineEventEngine/base-sub010/pkg/fieldref"
	"github.com/SpineEventEngine/base-sub010/pkg/observability"
)

const byOptionCacheSize = 1024

// ErrInvalidParameter is returned for a malformed plugin parameter
var ErrInvalidParameter = errors.New("invalid plugin parameter")

// Parameters are the options passed to the plugin by protoc
type Parameters struct {
	// Config is the path of the configuration file, defaults apply when empty
	Config string
	// Workers above one enables parallel generation
	Workers int
}

// ParseParameter parses "key=value" pairs separated by commas
func ParseParameter(raw string) (Parameters, error) {
	var params Parameters
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return Parameters{}, fmt.Errorf("%w: %q is not key=value", ErrInvalidParameter, pair)
		}
		switch strings.TrimSpace(key) {
		case "config":
			params.Config = strings.TrimSpace(value)
		case "workers":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				return Parameters{}, fmt.Errorf("%w: workers=%q", ErrInvalidParameter, value)
			}
			params.Workers = n
		default:
			return Parameters{}, fmt.Errorf("%w: unknown key %q", ErrInvalidParameter, key)
		}
	}
	return params, nil
}

// Run reads a CodeGeneratorRequest from in and writes the response to out.
// Generation failures are reported in the response, the returned error
// covers reading and writing only.
func Run(ctx context.Context, in io.Reader, out io.Writer, log logrus.FieldLogger) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(data, req); err != nil {
		return fmt.Errorf("failed to parse request: %w", err)
	}

	resp := Generate(ctx, req, log)

	data, err = proto.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// Generate answers a plugin request. It never panics.
func Generate(ctx context.Context, req *pluginpb.CodeGeneratorRequest, log logrus.FieldLogger) (resp *pluginpb.CodeGeneratorResponse) {
	log = observability.OrDiscard(log)
	defer func() {
		if r := recover(); r != nil {
			resp = artifacts.ErrorResponse(observability.RecoverError(log, "protoc plugin", r))
		}
	}()

	arts, err := generate(ctx, req, log)
	if err != nil {
		log.WithError(err).Error("Generation failed")
		return artifacts.ErrorResponse(err)
	}
	return artifacts.ToResponse(arts)
}

func generate(ctx context.Context, req *pluginpb.CodeGeneratorRequest, log logrus.FieldLogger) ([]artifacts.Artifact, error) {
	params, err := ParseParameter(req.GetParameter())
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if params.Config != "" {
		if cfg, err = config.Load(params.Config); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	if params.Workers > 0 {
		cfg.Generation.Workers = params.Workers
	}

	set, err := descriptors.FromRequest(req, append(cfg.LoadOptions(), descriptors.WithLogger(log))...)
	if err != nil {
		return nil, err
	}

	if cfg.Enrichment.Validate {
		parser, err := fieldref.NewParser(byOptionCacheSize)
		if err != nil {
			return nil, err
		}
		resolver, err := enrichment.NewResolver(parser, log)
		if err != nil {
			return nil, err
		}
		if _, err := resolver.Resolve(set); err != nil {
			return nil, err
		}
	}

	tasks, err := cfg.Tasks(nil, &codegen.Options{Log: log})
	if err != nil {
		return nil, err
	}
	arts, err := tasks.GenerateParallel(ctx, set, cfg.Generation.Workers)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"files":     len(req.GetFileToGenerate()),
		"artifacts": len(arts),
	}).Info("Generation completed")
	return arts, nil
}
