package diagnostics

import (
	"errors"
	"fmt"

	"github.com/CTAG07/lexichain/pkg/markov"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrEmptyModel is returned when there is nothing to plot.
var ErrEmptyModel = errors.New("model has no lexemes")

// maxBins caps the histogram resolution.
const maxBins = 50

// PlotSuccessorHistogram writes a histogram of successor-list lengths to path.
// The image format follows the file extension (png, svg, pdf, ...).
func PlotSuccessorHistogram(m *markov.Model, title, path string) error {
	if m == nil || m.UniqueLexemeCount() == 0 {
		return ErrEmptyModel
	}

	counts := m.SuccessorCounts()
	values := make(plotter.Values, len(counts))
	longest := 0
	for i, c := range counts {
		values[i] = float64(c)
		longest = max(longest, c)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "successors per lexeme"
	p.Y.Label.Text = "lexemes"

	h, err := plotter.NewHist(values, min(longest+1, maxBins))
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(h)

	if err = p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram: %w", err)
	}
	return nil
}
