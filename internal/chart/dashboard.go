package chart

import (
	"context"
	"image/color"
	"io"
	"log/slog"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"cashflowcli/internal/analytics"
	"cashflowcli/internal/config"
	apperrors "cashflowcli/internal/errors"
	"cashflowcli/pkg/contracts/domain"
)

// billion scales currency values for the chart axes
const billion = 1e9

var (
	colorBase        = color.RGBA{R: 0x2E, G: 0x86, B: 0xAB, A: 0xFF}
	colorOptimistic  = color.RGBA{R: 0x06, G: 0xA7, B: 0x7D, A: 0xFF}
	colorPessimistic = color.RGBA{R: 0xD7, G: 0x26, B: 0x38, A: 0xFF}
	colorBand        = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x33}
)

type scenarioStyle struct {
	color  color.Color
	glyph  draw.GlyphDrawer
	dashed bool
}

var styles = map[domain.Scenario]scenarioStyle{
	domain.ScenarioBase:        {color: colorBase, glyph: draw.CircleGlyph{}},
	domain.ScenarioOptimistic:  {color: colorOptimistic, glyph: draw.SquareGlyph{}, dashed: true},
	domain.ScenarioPessimistic: {color: colorPessimistic, glyph: draw.TriangleGlyph{}, dashed: true},
}

// Dashboard renders the four-panel analysis dashboard as a PNG
type Dashboard struct {
	width  vg.Length
	height vg.Length
	dpi    int
	logger *slog.Logger
}

// NewDashboard creates a renderer sized from the output configuration
func NewDashboard(cfg config.OutputConfig, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		width:  vg.Length(cfg.ChartWidth) * vg.Inch,
		height: vg.Length(cfg.ChartHeight) * vg.Inch,
		dpi:    cfg.ChartDPI,
		logger: logger.With(slog.String("component", "chart")),
	}
}

// Render writes the dashboard to path. Failures are RENDER errors.
func (d *Dashboard) Render(ctx context.Context, a analytics.Analysis, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewRenderError("create chart file", err).WithContext("path", path)
	}

	if err := d.WriteTo(f, a); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return apperrors.NewRenderError("close chart file", err).WithContext("path", path)
	}

	d.logger.InfoContext(ctx, "Dashboard saved",
		slog.String("path", path),
		slog.Int("dpi", d.dpi))
	return nil
}

// WriteTo encodes the dashboard as PNG into w
func (d *Dashboard) WriteTo(w io.Writer, a analytics.Analysis) error {
	if len(a.Comparison.Labels) == 0 {
		return apperrors.NewRenderError("no periods to plot", nil)
	}

	balance, err := balancePanel(a)
	if err != nil {
		return apperrors.NewRenderError("balance projection panel", err)
	}
	final, err := finalBalancePanel(a)
	if err != nil {
		return apperrors.NewRenderError("final balance panel", err)
	}
	growth, err := growthPanel(a)
	if err != nil {
		return apperrors.NewRenderError("growth panel", err)
	}
	cumulative, err := cumulativePanel(a)
	if err != nil {
		return apperrors.NewRenderError("cumulative cash flow panel", err)
	}

	img := vgimg.NewWith(vgimg.UseWH(d.width, d.height), vgimg.UseDPI(d.dpi))
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      vg.Millimeter * 6,
		PadY:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}
	plots := [][]*plot.Plot{
		{balance, final},
		{growth, cumulative},
	}
	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		for col := range plots[row] {
			plots[row][col].Draw(canvases[row][col])
		}
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return apperrors.NewRenderError("encode png", err)
	}
	return nil
}

func newPanel(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func indexed(values []float64, scale float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v / scale
	}
	return pts
}

// addSeries adds a styled line with markers and a legend entry
func addSeries(p *plot.Plot, scenario domain.Scenario, pts plotter.XYs, markers bool) (*plotter.Line, error) {
	style := styles[scenario]

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = style.color
	line.Width = vg.Points(2)
	if style.dashed && !markers {
		line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	}
	p.Add(line)

	if !markers {
		p.Legend.Add(scenario.DisplayName(), line)
		return line, nil
	}

	points, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	points.Color = style.color
	points.Shape = style.glyph
	points.Radius = vg.Points(3)
	p.Add(points)
	p.Legend.Add(scenario.DisplayName(), line, points)
	return line, nil
}

// balancePanel plots closing balance per scenario
func balancePanel(a analytics.Analysis) (*plot.Plot, error) {
	p := newPanel("Cash Balance Projection", "", "Balance (Billion IDR)")
	for _, scenario := range domain.ComparisonOrder {
		if _, err := addSeries(p, scenario, indexed(a.Comparison.Balances[scenario], billion), true); err != nil {
			return nil, err
		}
	}
	p.NominalX(a.Comparison.Labels...)
	p.Legend.Top = true
	return p, nil
}

// finalBalancePanel draws one horizontal bar per scenario
func finalBalancePanel(a analytics.Analysis) (*plot.Plot, error) {
	p := newPanel("Final Balance Comparison", "Balance (Billion IDR)", "")

	finals, _ := a.Comparison.Table.Row(analytics.RowFinalBalance)
	names := make([]string, 0, len(domain.ComparisonOrder))
	for i, scenario := range domain.ComparisonOrder {
		bar, err := plotter.NewBarChart(plotter.Values{finals.Value(scenario) / billion}, vg.Points(28))
		if err != nil {
			return nil, err
		}
		bar.Horizontal = true
		bar.XMin = float64(i)
		bar.Color = styles[scenario].color
		bar.LineStyle.Width = 0
		p.Add(bar)
		names = append(names, scenario.DisplayName())
	}
	p.NominalY(names...)
	return p, nil
}

// growthPanel plots base month-over-month growth with a zero reference line
func growthPanel(a analytics.Analysis) (*plot.Plot, error) {
	p := newPanel("Month-over-Month Growth Rate", "", "Growth (%)")

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Black
	zero.Width = vg.Points(0.8)
	p.Add(zero)

	if _, err := addSeries(p, domain.ScenarioBase, indexed(a.Comparison.BaseGrowth, 1), true); err != nil {
		return nil, err
	}
	p.NominalX(a.Comparison.Labels...)
	return p, nil
}

// cumulativePanel plots cumulative net cash flow with the optimistic to
// pessimistic range shaded
func cumulativePanel(a analytics.Analysis) (*plot.Plot, error) {
	p := newPanel("Cumulative Cash Flow", "Period", "Cumulative CF (Billion IDR)")

	opt := indexed(a.Comparison.Cumulative[domain.ScenarioOptimistic], billion)
	pes := indexed(a.Comparison.Cumulative[domain.ScenarioPessimistic], billion)
	if len(opt) > 1 && len(opt) == len(pes) {
		band := make(plotter.XYs, 0, len(opt)*2)
		band = append(band, opt...)
		for i := len(pes) - 1; i >= 0; i-- {
			band = append(band, pes[i])
		}
		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return nil, err
		}
		poly.Color = colorBand
		poly.LineStyle.Width = 0
		p.Add(poly)
		p.Legend.Add("Uncertainty Range", poly)
	}

	if _, err := addSeries(p, domain.ScenarioBase, indexed(a.Comparison.Cumulative[domain.ScenarioBase], billion), true); err != nil {
		return nil, err
	}
	for _, scenario := range []domain.Scenario{domain.ScenarioOptimistic, domain.ScenarioPessimistic} {
		if _, err := addSeries(p, scenario, indexed(a.Comparison.Cumulative[scenario], billion), false); err != nil {
			return nil, err
		}
	}
	p.Legend.Top = true
	return p, nil
}
