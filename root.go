// ABOUTME: Root command and persistent flags shared by every subcommand
// ABOUTME: Loads the session before a command runs and manages profiling

package main

import (
	"github.com/spf13/cobra"
)

var (
	configFlag  string
	libraryFlag string
	debugFlag   bool
	cpuProfile  string
	memProfile  string

	// current is set by the root command before any subcommand runs
	current *session

	stopProfiling = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "medialib",
	Short: "Browse and queue a local music library",
	Long: `medialib scans a music directory (or an M3U8 playlist) and presents songs,
albums, artists and genres as sorted, grouped and searchable pages.

Pages are ordered by sort descriptors: key names joined by "|", where a key
prefixed with "G" also groups the page. Available descriptors:
` + sortHelp(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession(configFlag, libraryFlag, debugFlag)
		if err != nil {
			return err
		}

		current = s

		if cpuProfile != "" {
			stop, err := setupCPUProfile(cpuProfile)
			if err != nil {
				return err
			}

			stopProfiling = stop
		}

		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		stopProfiling()

		if memProfile != "" {
			writeMemoryProfile(memProfile, current.logger)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ./medialib.toml or ~/.config/medialib/config.toml)")
	rootCmd.PersistentFlags().StringVar(&libraryFlag, "library", "", "library directory or M3U8 playlist (overrides library_root)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging (the browser logs to log_path)")
	rootCmd.PersistentFlags().StringVar(&cpuProfile, "cpuprofile", "", "write cpu profile to file")
	rootCmd.PersistentFlags().StringVar(&memProfile, "memprofile", "", "write memory profile to file")
}
