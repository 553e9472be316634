package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"classbook/internal/portal/app"
	"classbook/internal/portal/app/pages"
	"classbook/pkg/logger"
)

func newOpenCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Open a portal page, following redirects, and print its view",
		Example: `  sessionsctl open /
  sessionsctl open /class/12
  sessionsctl open "/creator/dashboard?edit=12"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, build, func(ctx context.Context, p *app.Portal) (any, error) {
				// Навигатор ждет окончания разрешения сессии.
				go func() {
					if _, err := p.Session.Start(ctx); err != nil {
						logger.Log(ctx).Debug(ctx, "cli: stored session rejected", zap.Error(err))
					}
				}()

				visit, err := p.Navigator.Open(ctx, args[0])
				if err != nil {
					return nil, fmt.Errorf("opening %s: %w", args[0], err)
				}
				return visit, nil
			})
		},
	}
}

func newEnrollCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "enroll <class-id>",
		Short: "Enroll the current user in a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := pages.ParseID(args[0])
			if !ok {
				return fmt.Errorf("invalid class id %q", args[0])
			}
			return run(cmd, build, func(ctx context.Context, p *app.Portal) (any, error) {
				_, _ = p.Session.Start(ctx)

				res, view := p.Pages.Enroll(ctx, id)
				if err := resultError(res); err != nil {
					return nil, err
				}
				if res.Redirect != "" {
					return map[string]string{"redirect": res.Redirect}, nil
				}
				return view, nil
			})
		},
	}
}
