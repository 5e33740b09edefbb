// Package report renders presentation artifacts from derived holdings
package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// allocationSlice is one labeled slice of the allocation pie.
type allocationSlice struct {
	Label string
	Value float64
}

// RenderAllocationChart renders a PNG pie chart of market-value allocation.
// Slices arrive pre-sorted (largest holding first) and must have positive
// values. Returns raw PNG bytes.
func renderAllocationChart(slices []allocationSlice) ([]byte, error) {
	if len(slices) == 0 {
		return nil, fmt.Errorf("no holdings with market value to chart")
	}

	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: s.Label,
			Value: s.Value,
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no holdings with market value to chart")
	}

	pie := chart.PieChart{
		Title:  "Portfolio Allocation",
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render allocation chart: %w", err)
	}

	return buf.Bytes(), nil
}
