package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewBatchesCmd creates the batches command.
func NewBatchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batches [file]",
		Short: "Show GO batches and USE-separated chunks",
		Long: `Split a script at standalone GO lines, then at USE statements, and show
each resulting chunk with its batch index, starting line, and the database
it would execute against.`,
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

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"batch", "line", "database", "kind", "sql"})
			for _, c := range eng.Chunks(text) {
				kind := "sql"
				if c.IsMarker() {
					kind = "use"
				}
				t.AppendRow(table.Row{c.BatchIndex, c.StartLine, c.Database, kind, preview(c.SQL, c.UseText)})
			}
			t.Render()
			return nil
		},
	}
	return cmd
}

// preview flattens chunk text to a single short line for display.
func preview(sql, useText string) string {
	s := sql
	if s == "" {
		s = useText
	}
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 48 {
		s = s[:45] + "..."
	}
	return s
}
