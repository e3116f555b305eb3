package main

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nDmitry/podfeed/internal/app"
	"github.com/nDmitry/podfeed/internal/entity"
	"github.com/nDmitry/podfeed/internal/feed"
	"github.com/nDmitry/podfeed/internal/history"
	"github.com/nDmitry/podfeed/internal/metadata"
	"github.com/nDmitry/podfeed/internal/output"
)

type buildOptions struct {
	metadataPath  string
	mediaURLsPath string
	target        string
	format        string
}

func (o *buildOptions) bindOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.target, "output", "o", entity.StdoutTarget, `Output target: file path, "-" for stdout or redis://host:port/db?key=name`)
	cmd.Flags().StringVarP(&o.format, "format", "f", entity.FormatRSS, "Feed format: rss, atom or json")
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a feed from a metadata document and a media URL table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()

			if err != nil {
				return err
			}

			_, err = buildFeed(cmd.Context(), cfg, opts, cmd.OutOrStdout())

			return err
		},
	}

	cmd.Flags().StringVarP(&opts.metadataPath, "metadata", "m", "", "Path to the channel metadata document (yt-dlp --dump-single-json)")
	cmd.Flags().StringVarP(&opts.mediaURLsPath, "media-urls", "u", "", "Path to the id,url media table")
	opts.bindOutputFlags(cmd)

	_ = cmd.MarkFlagRequired("metadata")
	_ = cmd.MarkFlagRequired("media-urls")

	return cmd
}

// buildFeed runs the whole pipeline. Nothing is written unless loading and generation succeed.
func buildFeed(ctx context.Context, cfg *entity.Config, opts buildOptions, stdout io.Writer) (*entity.Run, error) {
	logger := app.Logger()

	params, err := entity.NewFeedParams(opts.format, opts.target)

	if err != nil {
		return nil, err
	}

	channel, err := metadata.Load(opts.metadataPath, opts.mediaURLsPath)

	if err != nil {
		return nil, err
	}

	generator := &feed.Generator{}

	content, err := generator.Generate(channel, params)

	if err != nil {
		return nil, err
	}

	err = output.Write(ctx, params.Target, content, output.Options{
		ChannelID: channel.ID,
		Format:    params.Format,
		TTL:       cfg.RedisTTL,
		Stdout:    stdout,
	})

	if err != nil {
		return nil, err
	}

	run := &entity.Run{
		ID:           uuid.NewString(),
		ChannelID:    channel.ID,
		ChannelTitle: channel.Title,
		Format:       params.Format,
		Target:       params.Target,
		Entries:      len(channel.Entries),
		MissingAudio: channel.MissingAudio(),
		Bytes:        int64(len(content)),
	}

	if run.MissingAudio > 0 {
		logger.Warn("Some entries have no audio URL", "channel", channel.ID, "missing", run.MissingAudio, "entries", run.Entries)
	}

	logger.Info("Feed built",
		"run", run.ID,
		"channel", channel.ID,
		"format", params.Format,
		"entries", run.Entries,
		"bytes", run.Bytes,
	)

	if err := recordRun(ctx, cfg, run); err != nil {
		// The feed is already delivered at this point.
		logger.Warn("Could not record run", "run", run.ID, "error", err)
	}

	return run, nil
}

func recordRun(ctx context.Context, cfg *entity.Config, run *entity.Run) error {
	if cfg.HistoryPath == "" {
		return nil
	}

	store, err := history.Open(cfg.HistoryPath)

	if err != nil {
		return err
	}

	return errors.Join(store.Record(ctx, run), store.Close())
}
