package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CreativeUnicorns/prefseditor"
)

var (
	treeSearch  string
	treeChanged bool
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().StringVarP(&treeSearch, "search", "s", "", "Only show preferences whose name or description contains this text")
	cmd.Flags().BoolVar(&treeChanged, "changed", false, "Only show preferences that differ from their defaults")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Display the preference tree",
		Long: `The tree command lists every editable preference grouped by module.

Example:
  prefsctl tree
  prefsctl tree --search tcp
  prefsctl tree --changed --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTree(cmd.Context())
		},
	}
	return cmd
}

func runTree(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	a.editor.Search(treeSearch)

	if treeChanged {
		rows := a.editor.Changed()
		if jsonOut {
			views := make([]rowView, 0, len(rows))
			for _, row := range rows {
				if !row.Hidden {
					views = append(views, newRowView(a.reg, row))
				}
			}
			return printJSON(views)
		}
		for _, row := range rows {
			if !row.Hidden {
				printRow(row, 0)
			}
		}
		return nil
	}

	if jsonOut {
		return printJSON(treeView(a.reg, a.editor.Root()))
	}
	printTree(a.editor.Root(), 0)
	return nil
}

// treeNode is the JSON form of a row and its visible children.
type treeNode struct {
	Title    string      `json:"title,omitempty"`
	Entry    *rowView    `json:"entry,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

func treeView(reg *prefseditor.Registry, row *prefseditor.Row) []*treeNode {
	var out []*treeNode
	for _, c := range row.Children {
		if c.Hidden {
			continue
		}
		if c.IsGroup() {
			out = append(out, &treeNode{Title: c.Name, Children: treeView(reg, c)})
			continue
		}
		v := newRowView(reg, c)
		out = append(out, &treeNode{Entry: &v})
	}
	return out
}

func printTree(row *prefseditor.Row, depth int) {
	for _, c := range row.Children {
		if c.Hidden {
			continue
		}
		if c.IsGroup() {
			fmt.Fprintf(os.Stdout, "%s%s\n", strings.Repeat("  ", depth), c.Name)
			printTree(c, depth+1)
			continue
		}
		printRow(c, depth)
	}
}

func printRow(row *prefseditor.Row, depth int) {
	marker := ""
	if row.Status == prefseditor.StatusChanged {
		marker = " *"
	}
	fmt.Fprintf(os.Stdout, "%s%s = %s  (%s)%s\n",
		strings.Repeat("  ", depth), row.Name, row.Value, row.TypeName, marker)
}
