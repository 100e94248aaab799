package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/erpdesk/erpdesk.go/contrib/erpdump"
)

func main() {
	// Create config with defaults
	config := erpdump.NewConfig()

	// Parse command-line flags into config
	flag.StringVar(&config.Endpoint, "endpoint", "", "ERPDesk API endpoint (required)")
	flag.StringVar(&config.Token, "token", os.Getenv("ERPDESK_TOKEN"), "Bearer token (defaults to ERPDESK_TOKEN)")
	flag.StringVar(&config.Output, "output", "", "Output file path (required)")
	flag.StringVar(&config.Dir, "dir", "", "Base directory for dumps (prefixes output path)")
	flag.IntVar(&config.PageSize, "page-size", config.PageSize, "Page size used while paging")
	flag.BoolVar(&config.Verbose, "verbose", false, "Enable verbose logging")

	// Entities flag - comma-separated list of entities to dump
	var entitiesFlag string
	flag.StringVar(&entitiesFlag, "entities", "", "Comma-separated list of entities to dump (empty means all)")

	flag.Parse()

	if entitiesFlag != "" {
		config.Entities = strings.Split(entitiesFlag, ",")
		for i, e := range config.Entities {
			config.Entities[i] = strings.TrimSpace(e)
		}
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	if err := erpdump.Do(ctx, config); err != nil {
		log.Fatal(err)
	}
}
