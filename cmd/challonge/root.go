package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/teamreflex/challonge-go"
	"github.com/teamreflex/challonge-go/challongectx"
	chalerr "github.com/teamreflex/challonge-go/errors"
	"github.com/teamreflex/challonge-go/internal/config"
	"github.com/teamreflex/challonge-go/logger"
)

// Exit codes for CLI commands.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	// ExitCodeAuthRequired indicates no usable credential or one rejected by the API.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates an OAuth endpoint refused a token request.
	ExitCodeAuthFailed = 3
)

var (
	envFiles []string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "challonge",
	Short: "Authenticate with Challonge and call the v2.1 API",
	Long: `challonge obtains OAuth tokens for a Challonge developer application and
sends raw requests to the Challonge API v2.1.

Settings are read from CHALLONGE_* environment variables and from a .env file
in the working directory.`,
	SilenceUsage:      true,
	Version:           challonge.Version,
	PersistentPreRunE: loadConfig,
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("unable to load configuration: %w", err)
	}
	cfg = c
	logger.SetLogLevel(cfg.ZerologLevel())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(challongectx.NewContextWithCorrelationId(ctx, uuid.NewString()))
	return nil
}

// Execute runs the root command and exits with a code matching the failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "challonge version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

func getExitCode(err error) int {
	if errors.Is(err, errNoCredentials) || errors.Is(err, chalerr.UnauthorizedError) {
		return ExitCodeAuthRequired
	}
	if errors.Is(err, chalerr.TokenExchangeError) {
		return ExitCodeAuthFailed
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default ./.env when present)")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(apiCmd)
}
