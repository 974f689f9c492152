// ABOUTME: Non-interactive list command printing one page of the library
// ABOUTME: Applies sort, direction, grouping and search flags, then formats the view

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listPage   pageOptions
	listFormat string
)

var listCmd = &cobra.Command{
	Use:   "list [page]",
	Short: "Print a page of the library",
	Long: `Print songs, albums, artists or genres, ordered by the saved page
preferences or by --sort. Pages: songs (default), albums, artists, genres.`,
	Example: `  medialib list albums --sort "GAlbumArtist|AlbumYear|AlbumTitle"
  medialib list songs --search "massive" --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	addPageFlags(listCmd, &listPage)
	listCmd.Flags().StringVar(&listFormat, "format", string(FormatTable), "Output format (table, json, yaml)")
	rootCmd.AddCommand(listCmd)
}

// addPageFlags registers the ordering flags shared by list and queue
func addPageFlags(cmd *cobra.Command, opts *pageOptions) {
	cmd.Flags().StringVar(&opts.sort, "sort", "", "sort descriptor, e.g. \"GSongArtist|SongAlbum|SongTrack\"")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "sort direction (ascending, descending)")
	cmd.Flags().BoolVar(&opts.alphabetical, "alphabetical", false, "group by first letter (with --sort)")
	cmd.Flags().StringVar(&opts.search, "search", "", "only items containing this text")
}

func runList(cmd *cobra.Command, args []string) error {
	s := current

	if len(args) > 0 {
		listPage.page = args[0]
	}

	format := OutputFormat(listFormat)
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unsupported format: %s", listFormat)
	}

	loaded, err := s.loadLibrary(cmd.Context(), s.logger)
	if err != nil {
		return err
	}
	defer func() { _ = loaded.Close() }()

	c, err := s.openPage(loaded.lib, listPage)
	if err != nil {
		return err
	}
	defer c.Dispose()

	return writeListing(cmd.OutOrStdout(), newListing(c), format)
}
