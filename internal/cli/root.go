package cli

import (
	"fmt"
	"os"

	"github.com/jaa/musicmaid/internal/exitcode"
	"github.com/spf13/cobra"
)

func Execute(build BuildInfo, streams IOStreams) int {
	if wd, err := os.Getwd(); err == nil {
		if envErr := loadDotEnvFiles(wd, os.Environ(), os.Setenv); envErr != nil {
			fmt.Fprintln(streams.ErrOut, "WARN:", envErr)
		}
	}

	app := &AppContext{Build: build, IO: streams}
	root := newRootCommand(app)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(streams.ErrOut, "ERROR:", err)
		return mapExitCode(err)
	}
	return exitcode.Success
}

func newRootCommand(app *AppContext) *cobra.Command {
	root := &cobra.Command{
		Use:   "musicmaid",
		Short: "Sort downloaded music into an Artist/Album library",
		Long: "musicmaid moves audio files from a download folder into <library>/<Artist>/<Album>/ " +
			"using their tags, drops duplicates and download leftovers, and prunes emptied folders.",
		Version:           versionText(app.Build),
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	root.SetOut(app.IO.Out)
	root.SetErr(app.IO.ErrOut)
	root.SetVersionTemplate("{{.Version}}")

	// Flags shared by every subcommand that reads config or reports events.
	// Run-specific switches live on their own subcommand.
	defaultConfigPath := os.Getenv("MUSICMAID_CONFIG")
	root.PersistentFlags().StringVarP(&app.Opts.ConfigPath, "config", "c", defaultConfigPath, "Path to config file")
	root.PersistentFlags().BoolVar(&app.Opts.JSON, "json", false, "Emit newline-delimited JSON events")
	root.PersistentFlags().BoolVarP(&app.Opts.Quiet, "quiet", "q", false, "Reduce output to errors and summary")
	root.PersistentFlags().BoolVarP(&app.Opts.Verbose, "verbose", "v", false, "Also report ignored files")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(exitcode.InvalidUsage, err)
	})

	root.AddCommand(newOrganizeCommand(app))
	root.AddCommand(newInitCommand(app))
	root.AddCommand(newValidateCommand(app))
	root.AddCommand(newDoctorCommand(app))
	root.AddCommand(newVersionCommand(app))

	return root
}

func versionText(build BuildInfo) string {
	version := build.Version
	if version == "" {
		version = "dev"
	}
	commit := build.Commit
	if commit == "" {
		commit = "unknown"
	}
	date := build.Date
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("musicmaid version %s\ncommit: %s\nbuild_date: %s\n", version, commit, date)
}

func printVersion(app *AppContext) {
	fmt.Fprint(app.IO.Out, versionText(app.Build))
}
