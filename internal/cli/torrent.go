package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// TorrentCmd creates the torrent command.
// The env parameter provides injectable dependencies for testing.
func TorrentCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "torrent <id>",
		Short: "Show a torrent and its release",
		Long: `Fetch a torrent by ID and print its release, encoding, edition and peers.

Use --json to print the full API response instead.`,
		Example: `  gazelle torrent 12345
  gazelle -i ops torrent 12345 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTorrent(cmd, env, args[0])
		},
	}
}

func runTorrent(cmd *cobra.Command, env *Env, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	s, err := openSession(cmd, env)
	if err != nil {
		return err
	}
	defer s.close()

	resp, err := withRetry(cmd.Context(), s, func(ctx context.Context) (*gazelle.TorrentResponse, error) {
		return s.client.GetTorrent(ctx, id)
	})
	if err != nil {
		return err
	}
	if s.globals.json {
		return writeJSON(env.stdout(), resp)
	}
	renderTorrent(env.stdout(), resp)
	return nil
}
