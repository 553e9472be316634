package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"classbook/internal/portal/app"
	"classbook/internal/portal/app/auth"
	"classbook/internal/portal/app/pages"
	"classbook/internal/portal/domain/entities"
)

// ErrActionFailed возвращается, если страница сообщила об ошибке.
var ErrActionFailed = errors.New("action failed")

type sessionOutput struct {
	Status string         `json:"status"`
	User   *entities.User `json:"user,omitempty"`
}

func outputOf(snap auth.Snapshot) sessionOutput {
	return sessionOutput{Status: snap.Status.String(), User: snap.User}
}

func resultError(res pages.Result) error {
	if res.Error != "" {
		return fmt.Errorf("%w: %s", ErrActionFailed, res.Error)
	}
	return nil
}

func newLoginCommand(build Builder) *cobra.Command {
	var username, password, access, refresh string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with username and password, or with a token pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, build, func(ctx context.Context, p *app.Portal) (any, error) {
				// Прежняя сессия могла истечь: ошибка разрешения не мешает новому входу.
				_, _ = p.Session.Start(ctx)

				var res pages.Result
				if access != "" || refresh != "" {
					res = p.Pages.OAuthCallback(ctx, access, refresh)
				} else {
					res = p.Pages.PasswordLogin(ctx, pages.LoginRequest{Username: username, Password: password})
				}
				if err := resultError(res); err != nil {
					return nil, err
				}
				return map[string]any{"redirect": res.Redirect, "session": outputOf(p.Session.Snapshot())}, nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&access, "access", "", "access token from the OAuth callback")
	cmd.Flags().StringVar(&refresh, "refresh", "", "refresh token from the OAuth callback")
	cmd.MarkFlagsMutuallyExclusive("username", "access")

	return cmd
}

func newLogoutCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, build, func(ctx context.Context, p *app.Portal) (any, error) {
				res := p.Pages.Logout(ctx)
				return map[string]any{"redirect": res.Redirect, "session": outputOf(p.Session.Snapshot())}, nil
			})
		},
	}
}

func newWhoamiCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Resolve the stored session and print the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, build, func(ctx context.Context, p *app.Portal) (any, error) {
				snap, _ := p.Session.Start(ctx)
				return outputOf(snap), nil
			})
		},
	}
}

func newRoleCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:       "role <user|creator>",
		Short:     "Select the role for the next OAuth login and print the state token",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(entities.RoleUser), string(entities.RoleCreator)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, build, func(ctx context.Context, p *app.Portal) (any, error) {
				state, res := p.Pages.SelectRole(ctx, pages.RoleRequest{Role: args[0]})
				if err := resultError(res); err != nil {
					return nil, err
				}
				return map[string]string{"role": args[0], "state": state}, nil
			})
		},
	}
}
