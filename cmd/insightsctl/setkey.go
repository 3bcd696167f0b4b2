package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"rideinsight/internal/infra"
	"rideinsight/internal/infra/credentials"
)

var setKeyValue string

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the Gemini API key in integration_tokens",
	Long:  "Stores the key given by --key, or GEMINI_API_KEY when --key is empty. The API server falls back to this key when GEMINI_API_KEY is unset.",
	Args:  cobra.NoArgs,
	RunE:  runSetKey,
}

func init() {
	setKeyCmd.Flags().StringVar(&setKeyValue, "key", "", "API key (defaults to GEMINI_API_KEY)")
}

func runSetKey(cmd *cobra.Command, args []string) error {
	key := strings.TrimSpace(setKeyValue)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if key == "" {
		return errors.New("GEMINI API key is required via --key or environment")
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "set-key").Str("provider", credentials.ProviderGemini).Logger()
	store := credentials.NewStore(infra.NewSQLRunner(pool, logger))
	if err := store.SetToken(ctx, credentials.ProviderGemini, key); err != nil {
		return fmt.Errorf("persist gemini api key: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "gemini api key stored")
	return nil
}
