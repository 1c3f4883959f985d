package resource

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/liora-cosmetic/liora/cli/cmd"
	"github.com/liora-cosmetic/liora/cli/export"
	"github.com/liora-cosmetic/liora/cli/tables"
	"github.com/liora-cosmetic/liora/pkg/config"
	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/spf13/cobra"
)

func exportCmd[T any](build func(tables.Deps) *tables.Table[T]) *cobra.Command {
	c := &cobra.Command{
		Use:   "export",
		Short: "Export every row matching the search and filters",
		Long: `Export every row matching the search and filters, in sort order and
across all pages, as JSON, CSV or PDF.`,
		Args: cobra.NoArgs,
	}
	addCriteriaFlags(c)
	c.Flags().String(flagType, string(export.FormatCSV), "Export format (json, csv, pdf)")
	c.Flags().String(flagFile, "", "Output file (default stdout)")
	c.Flags().String(flagFont, "", "UTF-8 TrueType font for PDF exports")
	c.RunE = func(cobraCmd *cobra.Command, args []string) error {
		handler := func(ctx context.Context, c *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
			return runExport(ctx, c, executor, build)
		}
		return cmd.ExecuteCommand(cobraCmd, authOptions(), cmd.ModeHandlers{JSON: handler, TUI: handler}, args)
	}
	return c
}

func runExport[T any](
	ctx context.Context,
	c *cobra.Command,
	executor *cmd.CommandExecutor,
	build func(tables.Deps) *tables.Table[T],
) error {
	crit, err := parseCriteria(c)
	if err != nil {
		return err
	}
	rawFormat, err := c.Flags().GetString(flagType)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return listctl.NewValidationError("type", rawFormat, err.Error())
	}
	file, err := c.Flags().GetString(flagFile)
	if err != nil {
		return err
	}
	font, err := c.Flags().GetString(flagFont)
	if err != nil {
		return err
	}
	deps := depsFor(ctx, executor, c.OutOrStdout())
	tbl := build(deps)
	opts := tbl.Options(deps)
	// every matching row is needed, so the whole collection is fetched
	opts.RemotePaging = false
	opts.Fetch = tbl.Resource.Fetcher(false)
	ctrl, err := listctl.New(ctx, opts)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	if err := applyCriteria(ctx, crit, tbl, ctrl); err != nil {
		return err
	}
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	items := ctrl.Filtered()
	sheet := export.Sheet{
		Title:       tbl.Title,
		Headers:     tbl.Headers(),
		Rows:        make([][]string, 0, len(items)),
		Widths:      make([]int, 0, len(tbl.Columns)),
		Records:     items,
		GeneratedAt: time.Now().In(opts.Location),
	}
	for _, col := range tbl.Columns {
		sheet.Widths = append(sheet.Widths, col.Width)
	}
	for _, item := range items {
		sheet.Rows = append(sheet.Rows, tbl.Cells(item))
	}
	var exportOpts []export.Option
	if font != "" {
		exportOpts = append(exportOpts, export.WithFontFile(config.ExpandHome(font)))
	}
	var w io.Writer = c.OutOrStdout()
	if file != "" {
		f, err := os.Create(config.ExpandHome(file))
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := export.Write(w, format, sheet, exportOpts...); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("list exported", "table", tbl.Name, "format", format, "rows", len(items), "file", file)
	return nil
}
