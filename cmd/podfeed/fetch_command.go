package main

import (
	"github.com/spf13/cobra"

	"github.com/nDmitry/podfeed/internal/app"
	"github.com/nDmitry/podfeed/internal/ytdlp"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var (
		channelURL string
		workdir    string
		opts       buildOptions
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Dump a channel with yt-dlp and build its feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()

			if err != nil {
				return err
			}

			client, err := ytdlp.New(cfg.Ytdlp)

			if err != nil {
				return err
			}

			app.Logger().Info("Fetching channel", "url", channelURL, "workdir", workdir)

			opts.metadataPath, opts.mediaURLsPath, err = client.Fetch(cmd.Context(), channelURL, workdir)

			if err != nil {
				return err
			}

			_, err = buildFeed(cmd.Context(), cfg, opts, cmd.OutOrStdout())

			return err
		},
	}

	cmd.Flags().StringVar(&channelURL, "channel", "", "Channel URL passed to yt-dlp")
	cmd.Flags().StringVarP(&workdir, "workdir", "w", "", "Directory receiving the yt-dlp dumps")
	opts.bindOutputFlags(cmd)

	_ = cmd.MarkFlagRequired("channel")
	_ = cmd.MarkFlagRequired("workdir")

	return cmd
}
