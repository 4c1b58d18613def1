package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/teamreflex/challonge-go/auth/oauth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect the stored token",
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored token and, for JWT access tokens, their claims",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cfg.TokenStore()
		token, err := store.Load()
		if err != nil {
			return err
		}
		if token == nil {
			return fmt.Errorf("%w: no token stored at %s", errNoCredentials, store.Path())
		}
		renderToken(cmd.OutOrStdout(), token, time.Now())
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenShowCmd)
}

func renderToken(w io.Writer, token *oauth.AccessToken, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value"})

	status := text.FgGreen.Sprint("valid")
	if token.IsExpiredAt(now) {
		status = text.FgRed.Sprint("expired")
	}

	t.AppendRow(table.Row{"Access token", mask(token.AccessToken())})
	t.AppendRow(table.Row{"Token type", token.TokenType()})
	t.AppendRow(table.Row{"Created", token.CreatedAt().Format(time.RFC3339)})
	t.AppendRow(table.Row{"Expires", token.ExpiresAt().Format(time.RFC3339)})
	t.AppendRow(table.Row{"Status", status})
	if token.HasRefreshToken() {
		t.AppendRow(table.Row{"Refresh token", mask(token.RefreshToken())})
	} else {
		t.AppendRow(table.Row{"Refresh token", text.FgYellow.Sprint("none")})
	}
	if scope, ok := token.Scope(); ok {
		t.AppendRow(table.Row{"Scope", scope})
	}
	t.Render()

	claims, ok := jwtClaims(token.AccessToken())
	if !ok {
		return
	}

	c := table.NewWriter()
	c.SetOutputMirror(w)
	c.SetStyle(table.StyleLight)
	c.SetTitle("JWT claims (unverified)")
	c.AppendHeader(table.Row{"Claim", "Value"})
	keys := make([]string, 0, len(claims))
	for k := range claims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c.AppendRow(table.Row{k, claims[k]})
	}
	c.Render()
}

// jwtClaims decodes the claims of a JWT access token without checking its signature.
func jwtClaims(accessToken string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// mask keeps the first and last four characters of a secret.
func mask(secret string) string {
	if len(secret) <= 12 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
