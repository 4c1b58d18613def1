package main

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/teamreflex/challonge-go/auth/oauth"
	"github.com/teamreflex/challonge-go/auth/oauth/m2m"
	"github.com/teamreflex/challonge-go/auth/oauth/u2m"
)

var (
	authOpen        bool
	authState       string
	authLoginTimeout time.Duration
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Obtain and manage OAuth tokens",
	Long: `Obtain OAuth tokens for the configured application and store them for later commands.

Examples:
  challonge auth url --open            # Start the authorization code flow in a browser
  challonge auth exchange <code>       # Trade the code from the redirect for a token
  challonge auth login                 # Both steps with a local redirect URI
  challonge auth device                # Device authorization for browserless setups
  challonge auth client-credentials    # Application token, no user involved
  challonge auth refresh               # Trade the stored refresh token
  challonge auth logout                # Remove the stored token`,
}

var authURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the authorization URL",
	Args:  cobra.NoArgs,
	RunE:  runAuthURL,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize in a browser and receive the code on a local redirect URI",
	Long: `Open the authorization page and wait for the redirect on CHALLONGE_REDIRECT_URI,
which must be a loopback address such as http://localhost:8030/callback registered
with the application.`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authExchangeCmd = &cobra.Command{
	Use:   "exchange <code>",
	Short: "Trade an authorization code for a token",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthExchange,
}

var authRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Trade the stored refresh token for a new token",
	Args:  cobra.NoArgs,
	RunE:  runAuthRefresh,
}

var authClientCredentialsCmd = &cobra.Command{
	Use:   "client-credentials",
	Short: "Obtain an application token with the client credentials grant",
	Args:  cobra.NoArgs,
	RunE:  runAuthClientCredentials,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cfg.TokenStore()
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", store.Path())
		return nil
	},
}

func init() {
	authURLCmd.Flags().BoolVar(&authOpen, "open", false, "open the URL in the default browser")
	authURLCmd.Flags().StringVar(&authState, "state", "", "state value to send (random when empty)")
	authLoginCmd.Flags().DurationVar(&authLoginTimeout, "timeout", u2m.DefaultCallbackTimeout, "how long to wait for the redirect")

	authCmd.AddCommand(authURLCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authExchangeCmd)
	authCmd.AddCommand(authRefreshCmd)
	authCmd.AddCommand(authClientCredentialsCmd)
	authCmd.AddCommand(authDeviceCmd)
	authCmd.AddCommand(authLogoutCmd)
}

func requireClient() error {
	if cfg.ClientID == "" {
		return errors.New("CHALLONGE_CLIENT_ID is not set")
	}
	return nil
}

func runAuthURL(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	state := authState
	if state == "" {
		var err error
		if state, err = u2m.GenerateState(); err != nil {
			return err
		}
	}

	flow := u2m.NewFlow(cfg.OAuthConfig(), cfg.Doer())
	authURL := flow.AuthorizationURL(url.Values{"state": []string{state}})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, authURL)
	fmt.Fprintf(out, "state: %s\n", state)

	if authOpen {
		if err := browser.OpenURL(authURL); err != nil {
			return fmt.Errorf("unable to open browser: %w", err)
		}
	}
	return nil
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}
	if cfg.RedirectURI == "" {
		return errors.New("CHALLONGE_REDIRECT_URI is not set")
	}

	state, err := u2m.GenerateState()
	if err != nil {
		return err
	}

	callback, err := u2m.NewCallbackServer(cfg.RedirectURI, state, authLoginTimeout)
	if err != nil {
		return err
	}
	if err := callback.Start(); err != nil {
		return fmt.Errorf("unable to listen for the redirect: %w", err)
	}

	flow := u2m.NewFlow(cfg.OAuthConfig(), cfg.Doer())
	authURL := flow.AuthorizationURL(url.Values{"state": []string{state}})

	fmt.Fprintf(cmd.ErrOrStderr(), "Opening %s\n", authURL)
	if err := browser.OpenURL(authURL); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Unable to open a browser, visit the URL above: %v\n", err)
	}

	code, err := callback.Wait(cmd.Context())
	if err != nil {
		return err
	}

	token, err := flow.ExchangeCode(cmd.Context(), code)
	if err != nil {
		return err
	}
	return saveToken(cmd, token)
}

func runAuthExchange(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	flow := u2m.NewFlow(cfg.OAuthConfig(), cfg.Doer())
	token, err := flow.ExchangeCode(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return saveToken(cmd, token)
}

func runAuthRefresh(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	current, err := cfg.TokenStore().Load()
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: no stored token, run challonge auth login", errNoCredentials)
	}
	if !current.HasRefreshToken() {
		return fmt.Errorf("%w: the stored token has no refresh token", errNoCredentials)
	}

	flow := u2m.NewFlow(cfg.OAuthConfig(), cfg.Doer())
	token, err := flow.Refresh(cmd.Context(), current.RefreshToken())
	if err != nil {
		return err
	}
	return saveToken(cmd, token)
}

func runAuthClientCredentials(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	flow := m2m.NewFlow(cfg.OAuthConfig(), cfg.Doer())
	token, err := flow.AccessToken(cmd.Context())
	if err != nil {
		return err
	}
	return saveToken(cmd, token)
}

func saveToken(cmd *cobra.Command, token *oauth.AccessToken) error {
	store := cfg.TokenStore()
	if err := store.Save(token); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s, expires %s\n", store.Path(), token.ExpiresAt().Format(time.RFC1123))
	return nil
}
