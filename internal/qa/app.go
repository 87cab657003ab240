package qa

import (
	"fmt"

	"github.com/remon-rakibul/DueDiligence/pkg/infra/app"
)

const (
	appName        = "qa-server"
	appDescription = `Due Diligence QA Service

The questionnaire answering service for the due-diligence platform.

This server provides:
  - Document ingestion with dual-granularity vector indexing
  - Questionnaire parsing and project lifecycle management
  - Retrieval-augmented answer generation with citations
  - Answer quality evaluation against human baselines`
)

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

func printBanner(opts *Options) {
	fmt.Printf("Starting %s...\n", appName)
	fmt.Printf("  Embedding: %s (%s)\n", opts.Embedding.Provider, opts.Embedding.Model)
	fmt.Printf("  Chat: %s (%s)\n", opts.Chat.Provider, opts.Chat.Model)
}
