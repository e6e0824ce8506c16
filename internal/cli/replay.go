package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/recolor/internal/engine/buffer"
	"github.com/dshills/recolor/internal/highlight"
)

// Replay errors.
var (
	ErrNoScript  = errors.New("replay needs --edits")
	ErrUnknownOp = errors.New("unknown edit op")
)

// Script is a list of edits to replay against a file.
type Script struct {
	Edits []ScriptEdit `yaml:"edits"`
}

// ScriptEdit is one scripted edit. Steps bounds the worker slices run
// after the edit; nil drains.
type ScriptEdit struct {
	Op    string `yaml:"op"`
	At    int    `yaml:"at"`
	Len   int    `yaml:"len"`
	Text  string `yaml:"text"`
	Steps *int   `yaml:"steps"`
}

// Edit converts the entry to a buffer edit.
func (e ScriptEdit) Edit() (buffer.Edit, error) {
	switch e.Op {
	case "insert":
		return buffer.NewInsert(e.At, e.Text), nil
	case "delete":
		return buffer.NewDelete(e.At, e.Len), nil
	case "replace":
		return buffer.NewReplace(e.At, e.Len, e.Text), nil
	default:
		return buffer.Edit{}, fmt.Errorf("%w %q", ErrUnknownOp, e.Op)
	}
}

// ParseScript decodes a YAML edit script. Unknown fields are rejected.
func ParseScript(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse edit script: %w", err)
	}
	for i, e := range s.Edits {
		if _, err := e.Edit(); err != nil {
			return nil, fmt.Errorf("edit %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func newReplayCommand(a *app) *cobra.Command {
	var edits string
	cmd := &cobra.Command{
		Use:   "replay FILE --edits SCRIPT",
		Short: "Apply scripted edits and report each pass",
		Long: `Load a file, apply the edits listed in a YAML script one at a time and
print the re-lexed window, token count and pending damage after each.

  edits:
    - {op: insert, at: 12, text: "/*"}
    - {op: delete, at: 40, len: 3, steps: 1}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if edits == "" {
				return ErrNoScript
			}
			data, err := os.ReadFile(edits)
			if err != nil {
				return err
			}
			script, err := ParseScript(data)
			if err != nil {
				return err
			}
			d, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer d.Close()
			return a.replay(cmd.OutOrStdout(), d, script)
		},
	}
	cmd.Flags().StringVarP(&edits, "edits", "e", "", "YAML edit script")
	return cmd
}

func (a *app) replay(out io.Writer, d *document, script *Script) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tEDIT\tWINDOW\tTOKENS\tRESYNCS\tPENDING")

	worker := d.engine.Mode() == highlight.ModeWorker
	for i, se := range script.Edits {
		e, _ := se.Edit()
		if err := d.buf.ApplyEdit(e); err != nil {
			tw.Flush()
			return fmt.Errorf("edit %d %s: %w", i+1, e, err)
		}
		if worker {
			if se.Steps == nil {
				d.engine.Drain()
			} else {
				for range *se.Steps {
					d.engine.Step()
				}
			}
		}
		st := d.engine.Stats()
		fmt.Fprintf(tw, "%d\t%s\t[%d,%d)\t%d\t%d\t%d\n",
			i+1, e, st.LastWindowStart, st.LastWindowEnd, st.LastPassTokens, st.Resyncs, st.Pending)
		if a.cfg.Verify && d.engine.Idle() {
			if err := d.verify(); err != nil {
				tw.Flush()
				return fmt.Errorf("after edit %d: %w", i+1, err)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	d.engine.Drain()
	if a.cfg.Verify {
		if err := d.verify(); err != nil {
			return err
		}
	}
	for _, diag := range d.diagnostics(0) {
		fmt.Fprintf(out, "fault: %s\n", diag)
	}
	st := d.engine.Stats()
	_, err := fmt.Fprintf(out, "%d edits, %d passes, %d tokens, %d resyncs, %d faults, %d restart positions\n",
		st.Edits, st.Passes, st.Tokens, st.Resyncs, st.Faults, st.RestartPositions)
	return err
}
