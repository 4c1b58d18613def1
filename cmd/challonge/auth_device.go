package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/teamreflex/challonge-go/auth/oauth"
	"github.com/teamreflex/challonge-go/auth/oauth/device"
	"golang.org/x/time/rate"
)

var deviceOpen bool

var errDeviceCodeExpired = errors.New("device code expired before authorization")

var authDeviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Authorize with the device authorization grant",
	Long: `Request a device code, show the user code and verification URL, then poll
at the interval given by the server until the user approves or the code expires.`,
	Args: cobra.NoArgs,
	RunE: runAuthDevice,
}

func init() {
	authDeviceCmd.Flags().BoolVar(&deviceOpen, "open", false, "open the verification URL in the default browser")
}

func runAuthDevice(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	session := device.NewFlow(cfg.OAuthConfig(), cfg.Doer()).NewSession()
	code, err := session.Start(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Visit %s and enter the code %s\n", code.VerificationURI, code.UserCode)
	if deviceOpen {
		_ = browser.OpenURL(code.VerificationURI)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Waiting for authorization..."
	s.Start()
	token, err := pollSession(cmd.Context(), session, code)
	s.Stop()
	if err != nil {
		return err
	}

	return saveToken(cmd, token)
}

// pollSession polls at the server interval until the session leaves AWAITING_USER or the code expires.
func pollSession(ctx context.Context, session *device.Session, code *device.DeviceCode) (*oauth.AccessToken, error) {
	if code.ExpiresIn > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, code.Lifetime())
		defer cancel()
	}

	limiter := rate.NewLimiter(rate.Every(code.PollInterval()), 1)
	// the first poll also waits one interval
	limiter.Reserve()

	for {
		// Wait fails early when the next slot is past the deadline
		if err := limiter.Wait(ctx); err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, ctx.Err()
			}
			return nil, errDeviceCodeExpired
		}

		token, err := session.Poll(ctx)
		if err != nil {
			return nil, err
		}
		if token != nil {
			return token, nil
		}
	}
}
