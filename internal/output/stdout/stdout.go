package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/crimson-sun/nino/internal/engine/evaluate"
	"github.com/crimson-sun/nino/internal/output"
)

// Output writes evaluation results to a terminal or stream.
type Output struct {
	w      io.Writer
	format output.Format
	pretty bool
	styled bool
}

// New creates an Output on w (os.Stdout when nil). Text output is colored
// only when w is a terminal; pretty indents JSON output.
func New(w io.Writer, format output.Format, pretty bool) *Output {
	if w == nil {
		w = os.Stdout
	}
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return &Output{w: w, format: format, pretty: pretty, styled: styled}
}

func (o *Output) Write(_ context.Context, res *evaluate.Result) error {
	if o.format == output.JSON {
		enc := json.NewEncoder(o.w)
		if o.pretty {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(output.FormatResult(res, true)); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
		return nil
	}

	_, err := fmt.Fprintf(o.w,
		"========== Classification Report ==========\n%s\n"+
			"========= Confusion Matrix (label indices) =========\n%s\n"+
			"%d of %d patterns misclassified (%s)\n",
		res.Report.String(),
		output.RenderMatrix(res.Matrix, res.Labels, o.styled),
		len(res.Misclassified()), res.Matrix.Total(), res.Duration.Round(1e6))
	if err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
