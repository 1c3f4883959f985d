package resource

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/liora-cosmetic/liora/cli/cmd"
	"github.com/liora-cosmetic/liora/cli/helpers"
	"github.com/liora-cosmetic/liora/cli/tables"
	"github.com/liora-cosmetic/liora/cli/tui/components"
	"github.com/liora-cosmetic/liora/cli/tui/models"
	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/spf13/cobra"
)

// destructive actions need --yes in JSON mode and a confirmation otherwise
var destructive = []string{tables.ActionDelete, tables.ActionCancel, tables.ActionBan}

// actionResult is printed after a row or bulk action succeeds
type actionResult struct {
	Action string   `json:"action"`
	IDs    []string `json:"ids"`
	Value  string   `json:"value,omitempty"`
	Status string   `json:"status"`
}

func getCmd[T any](build func(tables.Deps) *tables.Table[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, authOptions(), cmd.ModeHandlers{
				JSON: func(ctx context.Context, c *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
					tbl := build(depsFor(ctx, executor, c.OutOrStdout()))
					item, err := tbl.Resource.Get(ctx, args[0])
					if err != nil {
						return err
					}
					return helpers.NewOutputWriter(c.OutOrStdout(), helpers.OutputFormatJSON).WriteJSON(item)
				},
			}, args)
		},
	}
}

func actionCmd[T any](build func(tables.Deps) *tables.Table[T]) *cobra.Command {
	c := &cobra.Command{
		Use:   "action <name> <id>",
		Short: "Run a row action (view, edit, delete, cancel, ban, unban)",
		Args:  cobra.ExactArgs(2),
	}
	c.Flags().BoolP(flagYes, "y", false, "Skip the confirmation of destructive actions")
	c.RunE = func(cobraCmd *cobra.Command, args []string) error {
		handler := func(ctx context.Context, c *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
			return runRowAction(ctx, c, executor, build, args[0], args[1])
		}
		return cmd.ExecuteCommand(cobraCmd, authOptions(), cmd.ModeHandlers{JSON: handler, TUI: handler}, args)
	}
	return c
}

func runRowAction[T any](
	ctx context.Context,
	c *cobra.Command,
	executor *cmd.CommandExecutor,
	build func(tables.Deps) *tables.Table[T],
	name, id string,
) error {
	deps := depsFor(ctx, executor, c.OutOrStdout())
	tbl := build(deps)
	if !slices.ContainsFunc(tbl.RowActions, func(a listctl.RowAction[T]) bool { return a.Name == name }) {
		return listctl.NewValidationError("action", name, fmt.Sprintf("%s supports %s", tbl.Name, actionNames(tbl)))
	}
	if slices.Contains(destructive, name) {
		ok, err := confirm(c, executor.GetMode(), fmt.Sprintf("%s %s %s?", name, tbl.Name, id))
		if err != nil || !ok {
			return err
		}
	}
	opts := tbl.Options(deps)
	opts.Fetch = singleFetch(tbl.Resource, []string{id})
	ctrl, err := listctl.New(ctx, opts)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	if err := ctrl.RunRowAction(ctx, name, id); err != nil {
		return err
	}
	if name == tables.ActionView || name == tables.ActionEdit {
		return nil
	}
	return writeResult(c, actionResult{Action: name, IDs: []string{id}, Status: "ok"})
}

func bulkCmd[T any](build func(tables.Deps) *tables.Table[T]) *cobra.Command {
	c := &cobra.Command{
		Use:   "bulk <id>...",
		Short: "Change the status of several rows at once",
		Args:  cobra.MinimumNArgs(1),
	}
	c.Flags().String(flagValue, "", "New status; asked for interactively when omitted")
	c.Flags().BoolP(flagYes, "y", false, "Skip the confirmation")
	c.RunE = func(cobraCmd *cobra.Command, args []string) error {
		return cmd.ExecuteCommand(cobraCmd, authOptions(), cmd.ModeHandlers{
			JSON: func(ctx context.Context, c *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
				return runBulk(ctx, c, executor, build, args)
			},
			TUI: func(ctx context.Context, c *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
				return runBulk(ctx, c, executor, build, args)
			},
		}, args)
	}
	return c
}

func runBulk[T any](
	ctx context.Context,
	c *cobra.Command,
	executor *cmd.CommandExecutor,
	build func(tables.Deps) *tables.Table[T],
	ids []string,
) error {
	deps := depsFor(ctx, executor, c.OutOrStdout())
	tbl := build(deps)
	choices, ok := tbl.BulkChoices[tables.BulkStatus]
	if !ok {
		return listctl.NewValidationError("bulk action", tables.BulkStatus, fmt.Sprintf("not supported by %s", tbl.Name))
	}
	value, err := c.Flags().GetString(flagValue)
	if err != nil {
		return err
	}
	ids = dedupe(ids)
	if value == "" {
		if executor.GetMode() != models.ModeTUI {
			return listctl.NewValidationError("value", "", "required, one of "+strings.Join(choices, ", "))
		}
		data := &components.BulkFormData{}
		form := components.NewFormWrapper(ctx, components.NewBulkForm(tables.BulkStatus, choices, len(ids), data))
		done, err := form.Run()
		if err != nil || !done || !data.Confirm {
			return err
		}
		value = data.Value
	} else {
		ok, err := confirm(c, executor.GetMode(), fmt.Sprintf("set %s of %d %s?", value, len(ids), tbl.Name))
		if err != nil || !ok {
			return err
		}
	}
	opts := tbl.Options(deps)
	opts.Fetch = singleFetch(tbl.Resource, ids)
	ctrl, err := listctl.New(ctx, opts)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	for _, id := range ids {
		if err := ctrl.ToggleSelect(id); err != nil {
			return err
		}
	}
	if err := ctrl.RunBulkAction(ctx, tables.BulkStatus, value); err != nil {
		return err
	}
	return writeResult(c, actionResult{
		Action: tables.BulkStatus,
		IDs:    ids,
		Value:  strings.ToUpper(strings.TrimSpace(value)),
		Status: "ok",
	})
}

// confirm asks in TUI mode and requires --yes otherwise
func confirm(c *cobra.Command, mode models.Mode, question string) (bool, error) {
	yes, err := c.Flags().GetBool(flagYes)
	if err != nil {
		return false, err
	}
	if yes {
		return true, nil
	}
	if mode != models.ModeTUI {
		return false, listctl.NewValidationError("confirmation", "", "pass --yes to "+question)
	}
	var ok bool
	done, err := components.NewFormWrapper(c.Context(), components.NewConfirmForm(question, &ok)).Run()
	if err != nil {
		return false, err
	}
	return done && ok, nil
}

func writeResult(c *cobra.Command, result actionResult) error {
	return helpers.NewOutputWriter(c.OutOrStdout(), helpers.OutputFormatJSON).WriteJSON(result)
}

func actionNames[T any](tbl *tables.Table[T]) string {
	names := make([]string, 0, len(tbl.RowActions))
	for _, a := range tbl.RowActions {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
