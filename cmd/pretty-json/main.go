package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/samirrijal/coverage-area/internal/adapters/entityfile"
	"github.com/samirrijal/coverage-area/internal/pkg/logging"
)

// pretty-json rewrites the given files in the repository JSON style.
func main() {
	logging.Setup(os.Getenv("COVERAGE_LOG_LEVEL"), "text")
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: pretty-json <file.json>...")
		os.Exit(2)
	}

	repo := entityfile.NewRepository()
	for _, path := range os.Args[1:] {
		if err := repo.Prettify(context.Background(), path); err != nil {
			slog.Error("pretty-json failed", "file", path, "error", err)
			os.Exit(1)
		}
	}
}
