package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jaa/musicmaid/internal/config"
	"github.com/jaa/musicmaid/internal/exitcode"
	"github.com/spf13/cobra"
)

func newValidateCommand(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the merged config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}
			if err := config.Validate(cfg); err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}
			source, destination, err := config.ResolveDirs(cfg)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}

			if app.Opts.JSON {
				payload := map[string]any{
					"valid":              true,
					"source_dir":         source,
					"destination_dir":    destination,
					"audio_extensions":   cfg.AudioExtensions,
					"sidecar_extensions": cfg.SidecarExtensions,
					"prune_empty_dirs":   cfg.PruneEmptyDirs,
				}
				encoded, _ := json.Marshal(payload)
				fmt.Fprintln(app.IO.Out, string(encoded))
				return nil
			}

			fmt.Fprintln(app.IO.Out, "Config is valid.")
			fmt.Fprintf(app.IO.Out, "source: %s\ndestination: %s\n", source, destination)
			return nil
		},
	}
}
