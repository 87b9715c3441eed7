package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var opts processOptions

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "happy-audio (-f FILE | -y URL) [flags]",
		Short: "Speed up and pitch-shift audio or video",
		Long: "Speed up and pitch-shift a local file or a YouTube video.\n\n" +
			"Downloads are kept in a small cache so re-running the same URL skips the download.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, ctx, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "Local audio or video file")
	flags.StringVarP(&opts.url, "youtube", "y", "", "YouTube URL")
	flags.StringVarP(&opts.output, "output", "o", "", "Output path (default <output_dir>/<name>_happy.<mp3|mp4>)")
	flags.Float64VarP(&opts.speed, "speed", "s", 0, "Speed multiplier (default from config, 1.25)")
	flags.Float64VarP(&opts.pitch, "pitch", "p", 0, "Pitch shift in semitones (default from config, 2)")
	flags.BoolVarP(&opts.video, "video", "v", false, "Process video: keep the picture, sped up, with the processed soundtrack")
	flags.BoolVar(&opts.noCache, "no-cache", false, "Always download, ignoring cached files")
	flags.BoolVar(&opts.json, "json", false, "Print the result as JSON")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Hide the progress bar and settings summary")
	rootCmd.MarkFlagsMutuallyExclusive("file", "youtube")
	rootCmd.MarkFlagsOneRequired("file", "youtube")

	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))

	return rootCmd
}
