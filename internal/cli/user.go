package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// UserCmd creates the user command.
func UserCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Show a user's transfer statistics",
		Long: `Show a user's class, transfer totals, ratio and community counts.

Fields hidden by the user's paranoia settings are reported as zero.`,
		Example: `  gazelle user 1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUser(cmd, env, args[0])
		},
	}
}

func runUser(cmd *cobra.Command, env *Env, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	s, err := openSession(cmd, env)
	if err != nil {
		return err
	}
	defer s.close()

	user, err := withRetry(cmd.Context(), s, func(ctx context.Context) (*gazelle.User, error) {
		return s.client.GetUser(ctx, id)
	})
	if err != nil {
		return err
	}
	if s.globals.json {
		return writeJSON(env.stdout(), user)
	}
	renderUser(env.stdout(), user)
	return nil
}
