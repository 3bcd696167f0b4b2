package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rideinsight/internal/format"
	"rideinsight/internal/infra"
	"rideinsight/internal/insights"
)

var (
	askTimeout time.Duration
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Answer a question against the configured database",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 3*time.Minute, "overall deadline for the question")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full answer with analytics as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "ask").Logger()

	ctx, cancel := context.WithTimeout(cmd.Context(), askTimeout)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	svc, err := insights.Wire(ctx, cfg, pool, &logger)
	if err != nil {
		return err
	}

	ans, err := svc.Ask(ctx, strings.Join(args, " "))
	if err != nil {
		if msg := format.FailureMessage(err); msg != format.MessageGeneric {
			return fmt.Errorf("%s (%w)", msg, err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if askJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ans)
	}
	fmt.Fprintln(out, ans.Answer)
	fmt.Fprintf(out, "\n(%d trips, %d users analyzed; emphasis %s)\n", ans.TripsAnalyzed, ans.UsersAnalyzed, ans.Plan.Emphasis)
	return nil
}
