package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CreativeUnicorns/prefseditor"
)

func init() {
	rootCmd.AddCommand(newSetCmd(), newToggleCmd(), newResetCmd())
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Set a preference value",
		Long: `The set command parses a value in the preference's display format,
stores it and saves the profile.

Example:
  prefsctl set tcp.ports "80,8000-8080"
  prefsctl set gui.packet_list_layout side_by_side
  prefsctl set gui.marked_frame.fg fce94f`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd.Context(), args)
		},
	}
}

func newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <name>",
		Short: "Flip a boolean preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), args[0], prefseditor.ToggleCommand)
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <name>",
		Short: "Restore a preference to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), args[0], prefseditor.ResetCommand)
		},
	}
}

func runSet(ctx context.Context, args []string) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	row, err := a.row(args[0])
	if err != nil {
		return err
	}
	v, err := a.reg.ParseValue(row.Entry(), args[1])
	if err != nil {
		return err
	}
	return a.commit(ctx, row, prefseditor.SetCommand(row.Entry(), v))
}

func runCommand(ctx context.Context, name string, build func(*prefseditor.Entry) prefseditor.Command) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	row, err := a.row(name)
	if err != nil {
		return err
	}
	return a.commit(ctx, row, build(row.Entry()))
}

// commit applies cmd, saves the profile and prints the resulting value.
func (a *app) commit(ctx context.Context, row *prefseditor.Row, cmd prefseditor.Command) error {
	if err := a.editor.Apply(cmd); err != nil {
		return err
	}
	if err := a.editor.Commit(ctx); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	printVerbose("Saved %s to profile %q\n", cmd, a.reg.Profile())

	if jsonOut {
		return printJSON(newRowView(a.reg, row))
	}
	fmt.Fprintf(os.Stdout, "%s = %s\n", row.Name, row.Value)
	return nil
}
