package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mikevskater/sqlsense/pkg/clause"
)

// NewContextCmd creates the context command.
func NewContextCmd() *cobra.Command {
	var (
		line        int
		col         int
		completions bool
	)
	cmd := &cobra.Command{
		Use:   "context [file]",
		Short: "Resolve the clause context at a cursor position",
		Long: `Resolve what a cursor position in a SQL script is pointing at: the clause
mode, the active database, and the extracted qualifier or left-hand side.

Reads from the file argument or stdin. Line and column are 1-based.`,
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
			res := eng.ResolveAt(text, line, col)
			ctx := res.Context

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "mode:     %s\n", ctx.Mode)
			if ctx.JoinType != "" {
				_, _ = fmt.Fprintf(out, "join:     %s\n", ctx.JoinType)
			}
			if ctx.TableRef != "" {
				_, _ = fmt.Fprintf(out, "table:    %s\n", ctx.TableRef)
			}
			if ctx.Schema != "" {
				_, _ = fmt.Fprintf(out, "schema:   %s\n", ctx.Schema)
			}
			if ctx.Database != "" {
				_, _ = fmt.Fprintf(out, "db.qual:  %s\n", ctx.Database)
			}
			if ctx.ValueIndex > 0 {
				_, _ = fmt.Fprintf(out, "slot:     %d\n", ctx.ValueIndex)
			}
			if ctx.Column != "" {
				_, _ = fmt.Fprintf(out, "column:   %s\n", ctx.Column)
			}
			if ctx.Left != nil {
				_, _ = fmt.Fprintf(out, "left:     %s (table=%q column=%q)\n",
					ctx.Left.Qualified, ctx.Left.TableRef, ctx.Left.Column)
			}
			if ctx.Partial != "" {
				_, _ = fmt.Fprintf(out, "partial:  %s\n", ctx.Partial)
			}
			if ctx.Mode == clause.ModeNone {
				if c, ok := eng.CommentAt(text, line, col); ok {
					_, _ = fmt.Fprintf(out, "comment:  %s\n", c.Kind)
				}
			}
			_, _ = fmt.Fprintf(out, "database: %s\n", res.Chunk.Database)

			if completions && ctx.Mode != clause.ModeNone {
				for _, c := range eng.Completions(text, line, col) {
					if c.Detail != "" {
						_, _ = fmt.Fprintf(out, "  %-24s %s (%s)\n", c.Label, c.Kind, c.Detail)
					} else {
						_, _ = fmt.Fprintf(out, "  %-24s %s\n", c.Label, c.Kind)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&line, "line", 1, "1-based cursor line")
	cmd.Flags().IntVar(&col, "col", 1, "1-based cursor column")
	cmd.Flags().BoolVar(&completions, "completions", false, "also list completion suggestions")
	return cmd
}
