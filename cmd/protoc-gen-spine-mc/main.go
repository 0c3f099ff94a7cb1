package main

import (
	"context"
	"fmt"
	"os"

	"github.com/SpineEventEngine/base-sub010/pkg/observability"
	"github.com/SpineEventEngine/base-sub010/pkg/plugin"
)

func main() {
	log, err := observability.NewLogger(os.Getenv("SPINE_MC_LOG_LEVEL"), observability.TextFormat, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Generation failures are reported in the response; only I/O errors end up here.
	if err := plugin.Run(context.Background(), os.Stdin, os.Stdout, log); err != nil {
		log.WithError(err).Error("protoc-gen-spine-mc failed")
		os.Exit(1)
	}
}
