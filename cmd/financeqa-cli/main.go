// Package main is the entry point for the financeqa operations CLI.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"financeqa/internal/adapter/search"
	"financeqa/internal/domain"
	"financeqa/internal/infra"
	"financeqa/internal/infra/config"
	"financeqa/internal/usecase/retrieval"
)

var (
	serverURL string
	apiKey    string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "financeqa-cli",
	Short: "Operations CLI for the financeqa service",
	Long: `financeqa-cli talks to a running financeqa server and its retrieval
backends.

Example usage:
  financeqa-cli ask "What was Apple's revenue in Q1 2023?"
  financeqa-cli docs
  financeqa-cli plan "2023 Q1 AAPL" "2023 Q2 AAPL"
  financeqa-cli plan --combined "2023 Q1 AAPL" "2022 Q1 MSFT"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "financeqa server base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (defaults to FINANCEQA_API_KEY)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 120*time.Second, "request timeout")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(planCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the server one question and print the grounded answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	key := apiKey
	if key == "" {
		key = os.Getenv("FINANCEQA_API_KEY")
	}

	payload, err := json.Marshal([]map[string]string{{"message": args[0]}})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/query", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", key)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, body)
	}

	var result domain.AnswerResult
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to decode answer: %w", err)
	}

	fmt.Println(result.Response)
	if len(result.References) > 0 {
		fmt.Println("\nReferences:")
		for _, ref := range result.References {
			fmt.Printf("  %d %s %s, page %d\n", ref.Year, ref.Quarter, ref.Company, ref.Page)
		}
	}
	return nil
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List the corpus documents the configured search backend knows",
	RunE:  runDocs,
}

func runDocs(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var lister domain.CorpusLister
	switch cfg.Search.Backend {
	case config.SearchBackendPgvector:
		pool, err := infra.NewPostgresPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()
		// Listing documents never embeds, so no embedder is wired here.
		lister = search.NewPassageStore(pool, nil, discardLogger())
	case config.SearchBackendHTTP:
		lister = search.NewVectorIndexClient(cfg.Search.IndexURL, timeout)
	default:
		return fmt.Errorf("unknown search backend %q", cfg.Search.Backend)
	}

	docs, err := lister.ListDocuments(ctx)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		fmt.Println(doc.Name())
	}
	return nil
}

var planCmd = &cobra.Command{
	Use:   "plan [document name]...",
	Short: "Show the retrieval plan for a set of extracted filters",
	Long: `Parses each argument as a document name ("2023 Q1 AAPL") and prints
the scoped searches the retrieval planner would issue for it, with the
per-filter result budget. --combined shows the single merged predicate
instead; merging loses tuple identity across filters, which is why the
live path plans separated searches.`,
	Args: cobra.MinimumNArgs(0),
	RunE: runPlan,
}

var planCombined bool
var planTopK int

func init() {
	planCmd.Flags().BoolVar(&planCombined, "combined", false, "plan one merged predicate instead of per-filter searches")
	planCmd.Flags().IntVar(&planTopK, "top-k", 9, "total result budget across all searches")
}

func runPlan(cmd *cobra.Command, args []string) error {
	tuples := make([]domain.FilterTuple, 0, len(args))
	for _, arg := range args {
		doc, err := domain.ParseDocumentName(arg)
		if err != nil {
			return err
		}
		tuples = append(tuples, domain.FilterTuple{
			Year:    doc.Year,
			Quarter: doc.Quarter,
			Ticker:  doc.Company,
		})
	}

	var planned []domain.PlannedFilter
	if planCombined {
		planned = retrieval.PlanCombined(tuples, planTopK)
	} else {
		planned = retrieval.Plan(tuples, planTopK)
	}

	for i, p := range planned {
		filterJSON, err := json.Marshal(p.Predicate)
		if err != nil {
			return err
		}
		fmt.Printf("search %d: k=%d filter=%s\n", i+1, p.K, filterJSON)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
