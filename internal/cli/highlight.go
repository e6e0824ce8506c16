package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"

	"github.com/dshills/recolor/internal/highlight"
	"github.com/dshills/recolor/internal/lexer"
	"github.com/dshills/recolor/internal/theme"
)

// Color output choices.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

func newHighlightCommand(a *app) *cobra.Command {
	var (
		spans bool
		color string
	)
	cmd := &cobra.Command{
		Use:   "highlight FILE",
		Short: "Color a file and print it",
		Long: `Color a file from scratch and print it with the configured theme, or
list its styled spans with --spans.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer d.Close()

			if a.cfg.Verify {
				if err := d.verify(); err != nil {
					return err
				}
			}
			for _, diag := range d.diagnostics(0) {
				a.logger.Warn("%s", diag)
			}

			out := cmd.OutOrStdout()
			if spans {
				return writeSpans(out, d.buf.String(), d.layer.Spans())
			}
			r, err := renderer(out, color)
			if err != nil {
				return err
			}
			if r == nil {
				_, err := io.WriteString(out, d.buf.String())
				return err
			}
			th, err := theme.Resolve(a.cfg.Theme)
			if err != nil {
				return err
			}
			return writeColored(out, r, th, d.buf.String(), d.layer.Spans())
		},
	}
	cmd.Flags().BoolVar(&spans, "spans", false, "print styled spans instead of text")
	cmd.Flags().StringVar(&color, "color", ColorAuto, "color output: auto, always or never")
	return cmd
}

// renderer returns the renderer for the color choice, or nil for plain
// output.
func renderer(out io.Writer, color string) (*lipgloss.Renderer, error) {
	switch color {
	case ColorNever:
		return nil, nil
	case ColorAuto:
		if !isTerminal(out) {
			return nil, nil
		}
		return lipgloss.NewRenderer(out), nil
	case ColorAlways:
		r := lipgloss.NewRenderer(out)
		r.SetColorProfile(termenv.TrueColor)
		return r, nil
	default:
		return nil, fmt.Errorf("unknown color mode %q", color)
	}
}

// writeSpans prints one line per tagged span: line:column, category and
// the quoted text. Columns count grapheme clusters.
func writeSpans(out io.Writer, text string, spans []highlight.Span) error {
	w := bufio.NewWriter(out)
	line, lineStart, pos := 1, 0, 0
	for _, s := range spans {
		for ; pos < s.Start; pos++ {
			if text[pos] == '\n' {
				line++
				lineStart = pos + 1
			}
		}
		if s.Category != lexer.CategoryNone {
			col := uniseg.GraphemeClusterCount(text[lineStart:s.Start]) + 1
			fmt.Fprintf(w, "%d:%d\t%s\t%q\n", line, col, s.Category, text[s.Start:s.End])
		}
	}
	return w.Flush()
}

// writeColored renders every span with its theme style. Spans are split
// at newlines so styles never pad across lines.
func writeColored(out io.Writer, r *lipgloss.Renderer, th *theme.Record, text string, spans []highlight.Span) error {
	w := bufio.NewWriter(out)
	for _, s := range spans {
		for i, part := range strings.Split(text[s.Start:s.End], "\n") {
			if i > 0 {
				w.WriteByte('\n')
			}
			if part != "" {
				w.WriteString(th.RenderWith(r, s.Category, part))
			}
		}
	}
	return w.Flush()
}
