// Package main provides the content-check binary: it loads a content
// directory, runs cross-reference validation, and exits non-zero when the
// authored ruleset is broken. Meant for content authors and CI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dmeverett/arbiter/internal/game/catalog"
)

func main() {
	start := time.Now()

	contentDir := flag.String("content", "content", "path to the content directory")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	level := zap.InfoLevel
	if *verbose {
		level = zap.DebugLevel
	}
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	cat, err := catalog.Load(*contentDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "content-check: %v\n", err)
		os.Exit(1)
	}
	if err := cat.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "content-check: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ok: %d entities, %d statuses, %d interactions (%s)\n",
		len(cat.EntityNames()),
		len(cat.StatusNames()),
		len(cat.InteractionNames()),
		time.Since(start).Round(time.Millisecond),
	)
}
