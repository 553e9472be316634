// Package cli содержит команды sessionsctl. Каждый запуск команды похож на перезагрузку
// страницы: сессия восстанавливается из хранилища токенов.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"classbook/internal/portal/app"
)

// Builder собирает компоненты портала для одной команды.
type Builder func(ctx context.Context) (*app.Portal, error)

// NewRootCmd создает корневую команду.
func NewRootCmd(build Builder) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sessionsctl",
		Short:         "Browse and book classes of the marketplace from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newLoginCommand(build),
		newLogoutCommand(build),
		newWhoamiCommand(build),
		newOpenCommand(build),
		newEnrollCommand(build),
		newRoleCommand(build),
		newTokenCommand(build),
	)

	return rootCmd
}

// run собирает портал, выполняет fn и печатает результат как JSON.
func run(cmd *cobra.Command, build Builder, fn func(ctx context.Context, p *app.Portal) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	portal, err := build(ctx)
	if err != nil {
		return fmt.Errorf("initializing portal: %w", err)
	}
	defer func() { _ = portal.Close() }()

	out, err := fn(ctx, portal)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
