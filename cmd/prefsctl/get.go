package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CreativeUnicorns/prefseditor"
)

var getShowType bool

func init() {
	cmd := newGetCmd()
	cmd.Flags().BoolVar(&getShowType, "type", false, "Show type information")
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Get a preference value",
		Long: `The get command prints the current value of a preference.

Example:
  prefsctl get tcp.ports
  prefsctl get gui.packet_list_layout --type`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), args)
		},
	}
	return cmd
}

// rowView is the JSON form of one preference.
type rowView struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Type            string `json:"type"`
	TypeDescription string `json:"type_description,omitempty"`
	Value           string `json:"value"`
	Default         string `json:"default"`
	Status          string `json:"status"`
}

func newRowView(reg *prefseditor.Registry, row *prefseditor.Row) rowView {
	e := row.Entry()
	return rowView{
		Name:            row.Name,
		Description:     e.Description(),
		Type:            string(e.Type()),
		TypeDescription: row.TypeTooltip,
		Value:           row.Value,
		Default:         reg.ToDisplayString(e, true),
		Status:          string(row.Status),
	}
}

func runGet(ctx context.Context, args []string) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	row, err := a.row(args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(newRowView(a.reg, row))
	}
	if getShowType {
		fmt.Fprintf(os.Stdout, "%s (%s, %s)\n", row.Value, row.TypeName, row.Status)
		return nil
	}
	fmt.Fprintln(os.Stdout, row.Value)
	return nil
}
