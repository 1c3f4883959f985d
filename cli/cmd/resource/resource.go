// Package resource wires the admin tables (orders, products, users) into
// list, get, action, bulk and export commands.
package resource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/liora-cosmetic/liora/cli/api"
	"github.com/liora-cosmetic/liora/cli/cmd"
	"github.com/liora-cosmetic/liora/cli/helpers"
	"github.com/liora-cosmetic/liora/cli/tables"
	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/liora-cosmetic/liora/pkg/notify"
	"github.com/spf13/cobra"
)

const (
	flagSearch = "search"
	flagFilter = "filter"
	flagSort   = "sort"
	flagDesc   = "desc"
	flagPage   = "page"
	flagOutput = "output"
	flagYes    = "yes"
	flagValue  = "value"
	flagType   = "type"
	flagFile   = "file"
	flagFont   = "font"
)

func OrdersCmd() *cobra.Command {
	return newCommand("orders", "Quản lý đơn hàng", tables.Orders)
}

func ProductsCmd() *cobra.Command {
	return newCommand("products", "Quản lý sản phẩm", tables.Products)
}

func UsersCmd() *cobra.Command {
	return newCommand("users", "Quản lý người dùng", tables.Users)
}

func newCommand[T any](name, short string, build func(tables.Deps) *tables.Table[T]) *cobra.Command {
	root := &cobra.Command{
		Use:   name,
		Short: short,
		Long: fmt.Sprintf(`%s.

Without a subcommand the interactive list opens on a terminal and a JSON
page is printed otherwise.`, short),
		Args: cobra.NoArgs,
	}
	list := listCmd(build)
	root.RunE = list.RunE
	addCriteriaFlags(root)
	root.Flags().Int(flagPage, 1, "Page to print in JSON mode")
	root.Flags().StringP(flagOutput, "o", "json", "Non-interactive output (json, table)")
	root.AddCommand(
		list,
		getCmd(build),
		actionCmd(build),
		bulkCmd(build),
		exportCmd(build),
	)
	return root
}

func addCriteriaFlags(c *cobra.Command) {
	c.Flags().StringP(flagSearch, "s", "", "Search term")
	c.Flags().StringArray(flagFilter, nil, "Filter as name=value (repeatable)")
	c.Flags().String(flagSort, "", "Sort column")
	c.Flags().Bool(flagDesc, false, "Sort descending")
}

// criteria are the list state requested on the command line
type criteria struct {
	search  string
	filters [][2]string
	sort    string
	desc    bool
}

func parseCriteria(c *cobra.Command) (criteria, error) {
	var out criteria
	var err error
	if out.search, err = c.Flags().GetString(flagSearch); err != nil {
		return out, err
	}
	raw, err := c.Flags().GetStringArray(flagFilter)
	if err != nil {
		return out, err
	}
	for _, expr := range raw {
		name, value, ok := strings.Cut(expr, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return out, listctl.NewValidationError("filter", expr, "expected name=value")
		}
		out.filters = append(out.filters, [2]string{strings.TrimSpace(name), value})
	}
	if out.sort, err = c.Flags().GetString(flagSort); err != nil {
		return out, err
	}
	if out.desc, err = c.Flags().GetBool(flagDesc); err != nil {
		return out, err
	}
	return out, nil
}

// applyCriteria sets search, filters and sort on ctrl. Enum filter values
// are matched in upper case like the API stores them.
func applyCriteria[T any](ctx context.Context, c criteria, tbl *tables.Table[T], ctrl *listctl.Controller[T]) error {
	if c.search != "" {
		if err := ctrl.SetSearchTerm(ctx, c.search); err != nil {
			return err
		}
	}
	for _, f := range c.filters {
		value := f[1]
		if def, ok := tbl.Filter(f[0]); ok && def.Kind == listctl.FilterEnum {
			value = strings.ToUpper(strings.TrimSpace(value))
		}
		if err := ctrl.SetFilter(ctx, f[0], value); err != nil {
			return err
		}
	}
	if c.sort == "" {
		return nil
	}
	if err := ctrl.SetSort(ctx, c.sort); err != nil {
		return err
	}
	if c.desc {
		return ctrl.SetSort(ctx, c.sort)
	}
	return nil
}

// depsFor builds table dependencies for JSON mode: toasts go to the log and
// view output is printed to out.
func depsFor(ctx context.Context, executor *cmd.CommandExecutor, out io.Writer) tables.Deps {
	return tables.Deps{
		Client:   executor.GetClient(),
		Config:   executor.GetConfig(),
		Notifier: notify.NewLogNotifier(ctx),
		Logger:   logger.FromContext(ctx),
		Show: func(title string, value any) {
			writer := helpers.NewOutputWriter(out, helpers.OutputFormatJSON)
			if err := writer.WriteJSON(map[string]any{"title": title, "data": value}); err != nil {
				logger.FromContext(ctx).Warn("failed to print detail", "error", err)
			}
		},
	}
}

// singleFetch serves only the items with ids, loaded one by one
func singleFetch[T any](res *api.Resource[T], ids []string) listctl.FetchFunc[T] {
	return func(ctx context.Context, _ listctl.Params) (listctl.Result[T], error) {
		items := make([]T, 0, len(ids))
		for _, id := range ids {
			item, err := res.Get(ctx, id)
			if err != nil {
				return listctl.Result[T]{}, err
			}
			items = append(items, item)
		}
		return listctl.Result[T]{Items: items, TotalCount: len(items)}, nil
	}
}

func authOptions() cmd.ExecutorOptions {
	return cmd.ExecutorOptions{RequireAuth: true}
}
