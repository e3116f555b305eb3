package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nDmitry/podfeed/internal/entity"
	"github.com/nDmitry/podfeed/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent feed builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()

			if err != nil {
				return err
			}

			if cfg.HistoryPath == "" {
				return errors.New("history is disabled, set history_path or PODFEED_HISTORY_PATH")
			}

			store, err := history.Open(cfg.HistoryPath)

			if err != nil {
				return err
			}

			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)

			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			fmt.Fprintln(out, renderRuns(runs))

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "Number of runs to show")

	return cmd
}

func renderRuns(runs []entity.Run) string {
	headers := []string{"When", "Channel", "Format", "Entries", "No audio", "Size", "Target"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(runs))

	for _, run := range runs {
		rows = append(rows, []string{
			humanize.Time(run.CreatedAt),
			run.ChannelTitle + " (" + run.ChannelID + ")",
			run.Format,
			strconv.Itoa(run.Entries),
			strconv.Itoa(run.MissingAudio),
			humanize.Bytes(uint64(run.Bytes)),
			run.Target,
		})
	}

	return renderTable(headers, rows, aligns)
}
