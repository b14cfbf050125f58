package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"line-inspector/config"
	"line-inspector/internal/container"
	"line-inspector/internal/domain/port"
)

func newProbeCommand(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Open the capture source, read one frame and print its properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			opts := port.CaptureOptions{Width: cfg.FrameWidth, Height: cfg.FrameHeight, FPS: cfg.CameraFPS}
			src, err := container.NewOpener(cfg).Open(cfg.CameraIndex, opts)
			if err != nil {
				return err
			}
			defer src.Close()

			frame, err := src.Read()
			if err != nil {
				return fmt.Errorf("read frame: %w", err)
			}

			rows := [][]string{
				{"source", sourceName(cfg)},
				{"requested", fmt.Sprintf("%dx%d @ %d fps", opts.Width, opts.Height, opts.FPS)},
				{"frame", fmt.Sprintf("%dx%d", frame.Image.Bounds().Dx(), frame.Image.Bounds().Dy())},
			}
			if p, ok := src.(port.CaptureProperties); ok {
				rows = append(rows, propertyRows(p.Properties())...)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Property", "Value"}, rows))
			return nil
		},
	}
}

func sourceName(cfg *config.Config) string {
	if cfg.CameraDir != "" {
		return "directory " + cfg.CameraDir
	}
	return "camera " + strconv.Itoa(cfg.CameraIndex)
}

func propertyRows(props map[string]float64) [][]string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, strconv.FormatFloat(props[k], 'f', -1, 64)})
	}
	return rows
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
