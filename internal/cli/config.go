package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RogueOneEcho/gazelle-api/internal/config"
)

// configKeyHelp lists supported configuration keys for help and errors.
var configKeyHelp = []string{
	config.KeyDefaultIndexer,
	config.KeyOutputDir,
	"<indexer>." + config.FieldURL,
	"<indexer>." + config.FieldKey,
	"<indexer>." + config.FieldRequests,
	"<indexer>." + config.FieldWindow,
}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/gazelle-api/config.yml.
Settings can also be provided via environment variables.

Supported settings:
  default-indexer     Indexer used without --indexer (env: GAZELLE_INDEXER)
  output-dir          Default directory for downloads (env: GAZELLE_OUTPUT_DIR)
  <indexer>.url       Tracker root, e.g. https://orpheus.network (env: GAZELLE_URL)
  <indexer>.key       API key (env: GAZELLE_API_KEY)
  <indexer>.requests  Requests allowed per window (default 5)
  <indexer>.window    Window length, e.g. 10s (default 10s)`,
		Example: `  gazelle config set ops.url https://orpheus.network
  gazelle config set ops.key <api-key>
  gazelle config set red.requests 10
  gazelle config set default-indexer ops
  gazelle config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

For output-dir, the directory will be created if it doesn't exist.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  gazelle config get ops.window`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values. API keys are masked.

Shows both values from the config file and environment variable fallbacks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if key == config.KeyOutputDir {
		// Expand ~ and validate directory.
		expanded := config.ExpandPath(value)
		if err := config.ValidOutputDir(expanded); err != nil {
			return fmt.Errorf("invalid output-dir: %w", err)
		}
		value = expanded
	}

	if err := config.Save(key, value); err != nil {
		return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(configKeyHelp, ", "))
	}

	shown := value
	if isSecretKey(key) {
		shown = maskSecret(value)
	}
	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, shown)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	value, err := config.Get(key)
	if err != nil {
		return err
	}

	// Check environment variable fallback.
	if value == "" {
		if envKey := envFallback(key); envKey != "" {
			value = env.Getenv(envKey)
		}
	}

	if value != "" {
		fmt.Fprintln(env.stdout(), value)
	}
	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	for _, pair := range [][2]string{
		{config.KeyDefaultIndexer, config.EnvIndexer},
		{config.KeyOutputDir, config.EnvOutputDir},
	} {
		if _, ok := data[pair[0]]; !ok {
			if v := env.Getenv(pair[1]); v != "" {
				data[pair[0]] = v + " (from env)"
			}
		}
	}

	if v := env.Getenv(config.EnvURL); v != "" {
		data["env.url"] = v + " (from " + config.EnvURL + ")"
	}
	if v := env.Getenv(config.EnvAPIKey); v != "" {
		data["env.key"] = maskSecret(v) + " (from " + config.EnvAPIKey + ")"
	}

	out := env.stdout()
	if len(data) == 0 {
		fmt.Fprintln(out, "No configuration set.")
		fmt.Fprintln(out, "\nAvailable settings:")
		for _, key := range configKeyHelp {
			fmt.Fprintf(out, "  %s\n", key)
		}
		return nil
	}

	for _, key := range slices.Sorted(maps.Keys(data)) {
		value := data[key]
		if isSecretKey(key) {
			value = maskSecret(value)
		}
		fmt.Fprintf(out, "%s=%s\n", key, value)
	}
	return nil
}

// isSecretKey reports whether key holds an API key.
func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "."+config.FieldKey) && !strings.HasPrefix(key, "env.")
}

// envFallback returns the environment variable consulted for key, if any.
func envFallback(key string) string {
	switch key {
	case config.KeyDefaultIndexer:
		return config.EnvIndexer
	case config.KeyOutputDir:
		return config.EnvOutputDir
	}
	return ""
}
