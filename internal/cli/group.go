package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// GroupCmd creates the group command.
func GroupCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "group <id>",
		Short:   "List the torrents of a release",
		Example: `  gazelle group 123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroup(cmd, env, args[0])
		},
	}
}

func runGroup(cmd *cobra.Command, env *Env, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	s, err := openSession(cmd, env)
	if err != nil {
		return err
	}
	defer s.close()

	resp, err := withRetry(cmd.Context(), s, func(ctx context.Context) (*gazelle.GroupResponse, error) {
		return s.client.GetTorrentGroup(ctx, id)
	})
	if err != nil {
		return err
	}
	if s.globals.json {
		return writeJSON(env.stdout(), resp)
	}
	renderGroup(env.stdout(), resp)
	return nil
}
