package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/mikevskater/sqlsense/internal/engine"
)

// NewReplCmd creates the repl command.
func NewReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive context inspection",
		Long: `An interactive loop for poking at the resolver. Lines you type accumulate
into a buffer; dot-commands inspect it:

  .at LINE:COL   resolve the context at a position in the buffer
  .end           resolve at the end of the buffer
  .scope         show the names in scope at the end of the buffer
  .batches       show the buffer's chunks
  .show          print the buffer with line numbers
  .clear         empty the buffer
  .quit          exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			return runRepl(cmd, eng)
		},
	}
	return cmd
}

func runRepl(cmd *cobra.Command, eng *engine.Engine) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sqlsense> ",
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "sqlsense REPL. Type SQL to build a buffer, .at LINE:COL to resolve, .quit to exit.")

	var buffer []string
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ".") {
			if quit := handleDotCommand(cmd, eng, buffer, trimmed, &buffer); quit {
				return nil
			}
			continue
		}
		buffer = append(buffer, line)
	}
}

// handleDotCommand executes a repl dot-command. Returns true to exit.
func handleDotCommand(cmd *cobra.Command, eng *engine.Engine, buffer []string, line string, bufp *[]string) bool {
	out := cmd.OutOrStdout()
	text := strings.Join(buffer, "\n")
	fields := strings.Fields(line)

	switch fields[0] {
	case ".quit", ".exit":
		return true

	case ".clear":
		*bufp = nil

	case ".show":
		for i, l := range buffer {
			_, _ = fmt.Fprintf(out, "%3d  %s\n", i+1, l)
		}

	case ".batches":
		for _, c := range eng.Chunks(text) {
			kind := "sql"
			if c.IsMarker() {
				kind = "use"
			}
			_, _ = fmt.Fprintf(out, "batch %d line %d db=%q %s: %s\n",
				c.BatchIndex, c.StartLine, c.Database, kind, preview(c.SQL, c.UseText))
		}

	case ".scope":
		sc := eng.ScopeAt(text, len(buffer), len(lastLine(buffer))+1)
		for _, e := range sc.AllEntries() {
			_, _ = fmt.Fprintf(out, "%-9s %s", e.Kind, e.Name)
			if e.Alias != "" {
				_, _ = fmt.Fprintf(out, " AS %s", e.Alias)
			}
			if cols := e.ColumnNames(); len(cols) > 0 {
				_, _ = fmt.Fprintf(out, " (%s)", strings.Join(cols, ", "))
			}
			_, _ = fmt.Fprintln(out)
		}

	case ".end":
		printResult(out, eng, text, len(buffer), len(lastLine(buffer))+1)

	case ".at":
		if len(fields) != 2 {
			_, _ = fmt.Fprintln(out, "usage: .at LINE:COL")
			return false
		}
		ln, cl, ok := parsePos(fields[1])
		if !ok {
			_, _ = fmt.Fprintln(out, "usage: .at LINE:COL")
			return false
		}
		printResult(out, eng, text, ln, cl)

	default:
		_, _ = fmt.Fprintf(out, "unknown command %s\n", fields[0])
	}
	return false
}

func printResult(out io.Writer, eng *engine.Engine, text string, line, col int) {
	res := eng.ResolveAt(text, line, col)
	ctx := res.Context
	_, _ = fmt.Fprintf(out, "mode=%s", ctx.Mode)
	if ctx.JoinType != "" {
		_, _ = fmt.Fprintf(out, " join=%s", ctx.JoinType)
	}
	if ctx.TableRef != "" {
		_, _ = fmt.Fprintf(out, " table=%s", ctx.TableRef)
	}
	if ctx.Left != nil {
		_, _ = fmt.Fprintf(out, " left=%s", ctx.Left.Qualified)
	}
	if ctx.Partial != "" {
		_, _ = fmt.Fprintf(out, " partial=%s", ctx.Partial)
	}
	_, _ = fmt.Fprintf(out, " db=%q (%s)\n", res.Chunk.Database, res.Elapsed)
}

func parsePos(s string) (line, col int, ok bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	line, err1 := strconv.Atoi(parts[0])
	col, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || line < 1 || col < 1 {
		return 0, 0, false
	}
	return line, col, true
}

func lastLine(buffer []string) string {
	if len(buffer) == 0 {
		return ""
	}
	return buffer[len(buffer)-1]
}
