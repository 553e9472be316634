package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"classbook/internal/portal/app"
	"classbook/internal/portal/app/auth"
)

// ErrNoTokens возвращается, если в хранилище нет токенов.
var ErrNoTokens = errors.New("no stored tokens")

type tokenOutput struct {
	Access  *auth.TokenInfo `json:"access"`
	Refresh *auth.TokenInfo `json:"refresh"`
}

func newTokenCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Decode the stored tokens without verifying them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, build, func(ctx context.Context, p *app.Portal) (any, error) {
				creds, ok := p.Store.Read(ctx)
				if !ok {
					return nil, ErrNoTokens
				}

				now := time.Now()
				access, err := auth.InspectToken(creds.AccessToken, now)
				if err != nil {
					return nil, err
				}
				refresh, err := auth.InspectToken(creds.RefreshToken, now)
				if err != nil {
					return nil, err
				}
				return tokenOutput{Access: access, Refresh: refresh}, nil
			})
		},
	}
}
