package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewScopeCmd creates the scope command.
func NewScopeCmd() *cobra.Command {
	var (
		line int
		col  int
	)
	cmd := &cobra.Command{
		Use:   "scope [file]",
		Short: "Show the names visible at a cursor position",
		Long: `Build the visible-names table at a cursor position: FROM/JOIN sources with
their aliases, CTEs, derived tables, temp tables, table variables, and
declared variables, honoring statement and GO boundaries.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			text, err := readInput(cmd, path)
			if err != nil {
				return err
			}

			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			sc := eng.ScopeAt(text, line, col)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"kind", "name", "alias", "columns"})
			for _, e := range sc.AllEntries() {
				t.AppendRow(table.Row{e.Kind.String(), e.Name, e.Alias, strings.Join(e.ColumnNames(), ", ")})
			}
			for name, typ := range sc.Variables() {
				t.AppendRow(table.Row{"variable", name, "", typ})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&line, "line", 1, "1-based cursor line")
	cmd.Flags().IntVar(&col, "col", 1, "1-based cursor column")
	return cmd
}
