package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/jaa/musicmaid/internal/config"
	"github.com/jaa/musicmaid/internal/engine"
	"github.com/jaa/musicmaid/internal/exitcode"
	"github.com/jaa/musicmaid/internal/metadata"
	"github.com/jaa/musicmaid/internal/output"
	"github.com/jaa/musicmaid/internal/tags"
	"github.com/spf13/cobra"
)

func newOrganizeCommand(app *AppContext) *cobra.Command {
	var sidecarExts []string
	keepEmptyDirs := false
	dryRun := false
	eventLog := ""

	cmd := &cobra.Command{
		Use:   "organize [SOURCE [DESTINATION]]",
		Short: "Move audio files into <DESTINATION>/<Artist>/<Album>/",
		Long: "organize walks SOURCE, moves every audio file into DESTINATION/<Artist>/<Album>/ " +
			"based on its tags, removes files already present in the library, deletes " +
			"download sidecar files and prunes directories left empty. Without arguments " +
			"the directories come from config.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(2)(cmd, args); err != nil {
				return withExitCode(exitcode.InvalidUsage, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}

			if len(args) > 0 {
				if cfg.SourceDir, err = absDir(args[0]); err != nil {
					return withExitCode(exitcode.InvalidUsage, fmt.Errorf("invalid source: %w", err))
				}
			}
			if len(args) > 1 {
				if cfg.DestinationDir, err = absDir(args[1]); err != nil {
					return withExitCode(exitcode.InvalidUsage, fmt.Errorf("invalid destination: %w", err))
				}
			}
			if cmd.Flags().Changed("sidecar-ext") {
				cfg.SidecarExtensions = sidecarExts
			}
			if keepEmptyDirs {
				cfg.PruneEmptyDirs = false
			}

			if err := config.Validate(cfg); err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}
			source, destination, err := config.ResolveDirs(cfg)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}

			emitter := newEmitter(app)
			if eventLog != "" {
				logFile, err := os.OpenFile(eventLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return withExitCode(exitcode.RuntimeFailure, fmt.Errorf("open event log: %w", err))
				}
				defer logFile.Close()
				emitter = output.NewMultiEmitter(emitter, output.NewJSONEmitter(logFile))
			}
			organizer := engine.NewOrganizer(metadata.NewResolver(tags.NewFormatReader()), emitter)

			ctx, stop := signal.NotifyContext(context.Background(), interruptSignals()...)
			defer stop()

			stats, runErr := organizer.Organize(ctx, engine.Request{
				SourceDir:         source,
				DestinationDir:    destination,
				AudioExtensions:   cfg.AudioExtensions,
				SidecarExtensions: cfg.SidecarExtensions,
				PruneEmptyDirs:    cfg.PruneEmptyDirs,
				DryRun:            dryRun,
			})
			if runErr != nil && !errors.Is(runErr, engine.ErrInterrupted) {
				return withExitCode(exitcode.RuntimeFailure, runErr)
			}

			if !app.Opts.JSON && !app.Opts.Quiet {
				writeSummary(app.IO.Out, stats, dryRun)
			}
			if runErr != nil {
				return withExitCode(exitcode.Interrupted, runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sidecarExts, "sidecar-ext", nil, "Sidecar extension to delete (repeatable, replaces config)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would happen without touching any file")
	cmd.Flags().StringVar(&eventLog, "event-log", "", "Also append every event as JSON to this file")
	cmd.Flags().BoolVar(&keepEmptyDirs, "keep-empty-dirs", false, "Leave emptied source directories in place")
	return cmd
}
