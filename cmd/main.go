package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tfslog "github.com/tokenflowlabs/tokenflow/internal/logging/slog"
)

const usage = "usage: tokenflow <fetch|analyze> [--config=config.yaml] [flags]"

func main() {
	ctx := context.Background()

	slog.SetDefault(slog.New(tfslog.NewHandler(os.Stdout, nil)))

	if len(os.Args) < 2 { //nolint:mnd
		slog.ErrorContext(ctx, usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "fetch":
		err = runFetch(ctx, os.Args[2:])
	case "analyze":
		err = runAnalyze(ctx, os.Args[2:])
	default:
		err = fmt.Errorf("unknown command '%s'; %s", os.Args[1], usage)
	}

	if err != nil {
		slog.ErrorContext(ctx, "Run failed", "error", err)

		os.Exit(1)
	}
}

// argValue returns the value of a --name=value argument, or the given
// default when the argument is absent.
func argValue(args []string, name string, defaultValue string) string {
	for _, arg := range args {
		parsedValue, hasPrefix := strings.CutPrefix(arg, "--"+name+"=")
		if hasPrefix {
			return parsedValue
		}
	}

	return defaultValue
}
