package resource

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/liora-cosmetic/liora/cli/cmd"
	"github.com/liora-cosmetic/liora/cli/helpers"
	"github.com/liora-cosmetic/liora/cli/tables"
	"github.com/liora-cosmetic/liora/cli/tui/components"
	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/liora-cosmetic/liora/pkg/notify"
	"github.com/spf13/cobra"
)

// listPayload is the JSON form of one list page
type listPayload[T any] struct {
	Items         []T                 `json:"items"`
	Page          int                 `json:"page"`
	PageSize      int                 `json:"page_size"`
	TotalPages    int                 `json:"total_pages"`
	FilteredCount int                 `json:"filtered_count"`
	TotalCount    int                 `json:"total_count"`
	Search        string              `json:"search,omitempty"`
	Filters       listctl.FilterState `json:"filters,omitempty"`
	Sort          listctl.SortState   `json:"sort"`
	Caption       string              `json:"caption"`
	Pagination    listctl.Pagination  `json:"pagination"`
}

func listCmd[T any](build func(tables.Deps) *tables.Table[T]) *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List rows with search, filters, sort and paging",
		Args:  cobra.NoArgs,
	}
	addCriteriaFlags(c)
	c.Flags().Int(flagPage, 1, "Page to print in JSON mode")
	c.Flags().StringP(flagOutput, "o", "json", "Non-interactive output (json, table)")
	c.RunE = func(cobraCmd *cobra.Command, args []string) error {
		return cmd.ExecuteCommand(cobraCmd, authOptions(), cmd.ModeHandlers{
			JSON: func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
				return listJSON(ctx, cobraCmd, executor, build)
			},
			TUI: func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
				return listTUI(ctx, cobraCmd, executor, build)
			},
		}, args)
	}
	return c
}

func listJSON[T any](
	ctx context.Context,
	c *cobra.Command,
	executor *cmd.CommandExecutor,
	build func(tables.Deps) *tables.Table[T],
) error {
	crit, err := parseCriteria(c)
	if err != nil {
		return err
	}
	page, err := c.Flags().GetInt(flagPage)
	if err != nil {
		return err
	}
	output, err := c.Flags().GetString(flagOutput)
	if err != nil {
		return err
	}
	format := helpers.OutputFormat(output)
	if format != helpers.OutputFormatJSON && format != helpers.OutputFormatTable {
		return listctl.NewValidationError("output", output, "must be json or table")
	}
	deps := depsFor(ctx, executor, c.OutOrStdout())
	tbl := build(deps)
	ctrl, err := listctl.New(ctx, tbl.Options(deps))
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
	if page > 1 {
		if err := ctrl.GoToPage(ctx, page); err != nil {
			return err
		}
	}
	v := ctrl.View()
	payload := listPayload[T]{
		Items:         make([]T, 0, len(v.Rows)),
		Page:          v.Page.Current,
		PageSize:      v.Page.Size,
		TotalPages:    v.TotalPages,
		FilteredCount: v.FilteredCount,
		TotalCount:    v.TotalCount,
		Search:        v.Search,
		Filters:       v.Filters,
		Sort:          v.Sort,
		Caption:       v.Caption.Text,
		Pagination:    v.Pagination,
	}
	rows := make([][]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		payload.Items = append(payload.Items, r.Item)
		rows = append(rows, tbl.Cells(r.Item))
	}
	logger.FromContext(ctx).Debug("list page ready", "table", tbl.Name, "page", v.Page.Current, "rows", len(rows))
	out := c.OutOrStdout()
	if err := helpers.NewOutputWriter(out, format).WriteData(payload, tbl.Headers(), rows); err != nil {
		return err
	}
	if format == helpers.OutputFormatTable {
		text := v.Caption.Text
		if v.Empty {
			text = v.EmptyMessage
		}
		fmt.Fprintln(out, text)
	}
	return nil
}

func listTUI[T any](
	ctx context.Context,
	c *cobra.Command,
	executor *cmd.CommandExecutor,
	build func(tables.Deps) *tables.Table[T],
) error {
	crit, err := parseCriteria(c)
	if err != nil {
		return err
	}
	cfg := executor.GetConfig()
	queue := notify.NewQueue(notify.WithTimeouts(cfg.Notify.ErrorTimeout, cfg.Notify.InfoTimeout))
	detail := components.NewDetailPane()
	deps := tables.Deps{
		Client:   executor.GetClient(),
		Config:   cfg,
		Notifier: notify.Multi{queue, notify.NewLogNotifier(ctx)},
		Logger:   logger.FromContext(ctx),
		Show:     detail.Show,
	}
	tbl := build(deps)
	view, err := components.NewListView(ctx, tbl, tbl.Options(deps), queue, detail)
	if err != nil {
		return err
	}
	defer view.Close()
	if err := applyCriteria(ctx, crit, tbl, view.Controller()); err != nil {
		return err
	}
	if _, err := tea.NewProgram(view, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("failed to run %s list: %w", tbl.Name, err)
	}
	return nil
}
