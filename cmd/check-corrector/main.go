// check-corrector exercises the text-correction collaborator against a
// sample malformed PR number, for verifying API credentials and model
// configuration outside the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/ilcdb/record-management/internal/infrastructure/external/openai"
)

func main() {
	apiKey := flag.String("key", "", "OpenAI API key (or set OPENAI_API_KEY)")
	model := flag.String("model", "gpt-4o-mini", "Model to use")
	rawValue := flag.String("raw", "202-4-01-01", "Malformed PR number to correct")
	timeout := flag.Duration("timeout", 30*time.Second, "API call timeout")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	_ = gotenv.Load()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if *apiKey == "" {
		fmt.Fprintln(os.Stderr, "ERROR: OPENAI_API_KEY not set and no --key flag provided")
		os.Exit(1)
	}

	corrector := openai.NewCorrector(*apiKey, *model, 0.2, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	candidates := []string{"2024-01-01", "2024-02-15", "2024-03-07"}
	result, err := corrector.Correct(ctx, *rawValue, candidates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Correction failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("raw value:  %s\n", *rawValue)
	fmt.Printf("suggestion: %s\n", result.Suggestion)
	fmt.Printf("confidence: %.2f\n", result.Confidence)
}
