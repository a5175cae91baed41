package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RogueOneEcho/gazelle-api/internal/format"
)

// LimitCmd creates the limit command.
func LimitCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "limit",
		Short: "Show the rate limit used for an indexer",
		Long: `Show the request rate the client enforces for the selected indexer.

Rates come from <indexer>.requests and <indexer>.window, or default to
5 requests per 10s. No API key is required.`,
		Example: `  gazelle limit
  gazelle -i ops limit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLimit(cmd, env)
		},
	}
}

func runLimit(cmd *cobra.Command, env *Env) error {
	g := readGlobals(cmd)
	t, err := resolveTarget(env, g.indexer)
	if err != nil {
		return err
	}
	l, err := t.newLimiter(zap.NewNop())
	if err != nil {
		return fmt.Errorf("invalid rate for %q: %w", t.name, err)
	}

	wait, _ := l.PeekWait()
	if g.json {
		return writeJSON(env.stdout(), map[string]any{
			"indexer":   t.name,
			"url":       t.indexer.URL,
			"requests":  l.Capacity(),
			"window":    l.Window().String(),
			"in_window": l.InWindow(),
			"next_wait": wait.String(),
		})
	}

	out := env.stdout()
	fmt.Fprintf(out, "%s (%s)\n", t.name, t.indexer.URL)
	fmt.Fprintf(out, "  rate:      %d requests per %s\n", l.Capacity(), format.Duration(l.Window()))
	fmt.Fprintf(out, "  in window: %d\n", l.InWindow())
	fmt.Fprintf(out, "  next wait: %s\n", format.Duration(wait))
	return nil
}
