package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Diogo1457/happy-audio/internal/downloadcache"
)

type cacheEntryView struct {
	Key     string `json:"key"`
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Present bool   `json:"present"`
	Bytes   int64  `json:"bytes"`
}

type cacheStatsView struct {
	Entries    int    `json:"entries"`
	Capacity   int    `json:"capacity"`
	TotalBytes int64  `json:"total_bytes"`
	Directory  string `json:"directory"`
	Index      string `json:"index"`
}

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the download cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached downloads, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			views, err := cacheViews(store)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, views)
			}
			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "Cache is empty")
				return nil
			}
			title := cases.Title(language.English)
			rows := make([][]string, 0, len(views))
			for i, v := range views {
				size := "missing"
				if v.Present {
					size = humanize.Bytes(uint64(v.Bytes))
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), title.String(v.Kind), v.ID, v.Path, size})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "#", align: alignRight},
				{header: "Kind"},
				{header: "ID"},
				{header: "File"},
				{header: "Size", align: alignRight},
			}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show download cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			views, err := cacheViews(store)
			if err != nil {
				return err
			}
			stats := cacheStatsView{
				Entries:   len(views),
				Capacity:  downloadcache.Capacity,
				Directory: store.Dir(),
				Index:     store.IndexPath(),
			}
			for _, v := range views {
				stats.TotalBytes += v.Bytes
			}
			if asJSON {
				return writeJSON(cmd, stats)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries:   %d / %d\n", stats.Entries, stats.Capacity)
			fmt.Fprintf(out, "Size:      %s\n", humanize.Bytes(uint64(stats.TotalBytes)))
			fmt.Fprintf(out, "Directory: %s\n", stats.Directory)
			fmt.Fprintf(out, "Index:     %s\n", stats.Index)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop index entries whose files were deleted",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			removed, err := store.Prune()
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stale cache entries")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d stale %s\n", removed, plural(removed, "entry", "entries"))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached download",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			removed, err := store.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached %s\n", removed, plural(removed, "file", "files"))
			return nil
		},
	}
}

func cacheViews(store *downloadcache.Store) ([]cacheEntryView, error) {
	entries, err := store.Entries()
	if err != nil {
		return nil, err
	}
	views := make([]cacheEntryView, 0, len(entries))
	for _, e := range entries {
		v := cacheEntryView{Key: e.Key, ID: e.ID, Kind: e.Kind.String(), Path: e.Path}
		if info, err := os.Stat(e.Path); err == nil {
			v.Present = true
			v.Bytes = info.Size()
		}
		views = append(views, v)
	}
	return views, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
