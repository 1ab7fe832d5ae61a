package monitor

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/quasar-data/crossmatch/internal/catalog"
	"github.com/quasar-data/crossmatch/internal/pairing"
)

// RenderReport writes an interactive HTML scatter of counterpart separation
// against match posterior, coloured by the astrometric likelihood ratio.
func RenderReport(w io.Writer, in *pairing.Inputs, res *pairing.Results) error {
	data := make([]opts.ScatterData, 0, len(res.AC))
	minXi, maxXi := 0.0, 1.0
	for k := range res.AC {
		a, b := res.AC[k], res.BC[k]
		// Separation in arcseconds for readable axes.
		sep := catalog.Separation(in.A.Lon[a], in.A.Lat[a], in.B.Lon[b], in.B.Lat[b]) * 3600
		xi := res.Xi[k]
		if k == 0 || xi < minXi {
			minXi = xi
		}
		if k == 0 || xi > maxXi {
			maxXi = xi
		}
		data = append(data, opts.ScatterData{Value: []interface{}{sep, res.Posterior[k], xi}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Cross-Match Report", Theme: "dark", Width: "900px", Height: "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Counterpart Separation vs Posterior",
			Subtitle: fmt.Sprintf("pairs=%d field a=%d field b=%d", len(res.AC), len(res.AField), len(res.BField)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Separation (arcsec)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "P(match)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minXi),
			Max:        float32(maxXi),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#31688e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("counterparts", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))

	return scatter.Render(w)
}

// WriteReportFile renders the HTML report to a file.
func WriteReportFile(path string, in *pairing.Inputs, res *pairing.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()
	if err := RenderReport(f, in, res); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return f.Close()
}
