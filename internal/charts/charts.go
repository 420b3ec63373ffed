// Package charts renders report breakdowns and trends as PNG images.
package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/sync/errgroup"

	"github.com/walletbook/walletbook/internal/aggregate"
	"github.com/walletbook/walletbook/internal/logger"
)

// ErrNoData is returned when there is nothing non-zero to draw.
var ErrNoData = errors.New("no data to chart")

// ValueFormatter renders an amount for labels and axes.
type ValueFormatter func(decimal.Decimal) string

// Generator renders charts at a fixed size.
type Generator struct {
	Width  int
	Height int
	Format ValueFormatter
}

// NewGenerator returns a generator with the default size. A nil format
// prints amounts with two decimals.
func NewGenerator(format ValueFormatter) *Generator {
	if format == nil {
		format = func(d decimal.Decimal) string { return d.StringFixed(2) }
	}
	return &Generator{Width: 800, Height: 600, Format: format}
}

func (g *Generator) background() chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    50,
			Left:   50,
			Right:  50,
			Bottom: 50,
		},
		FillColor: chart.ColorWhite,
	}
}

// CategoryPie draws a breakdown as a pie chart. Zero slices are skipped.
func (g *Generator) CategoryPie(title string, slices []aggregate.Slice) ([]byte, error) {
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if !s.Value.IsPositive() {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", s.Name, g.Format(s.Value), s.Percentage),
			Value: s.Value.InexactFloat64(),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:      title,
		Width:      g.Width,
		Height:     g.Height,
		Values:     values,
		Background: g.background(),
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering category pie chart: %w", err)
	}
	return buf.Bytes(), nil
}

// TrendBars draws a daily trend as a bar chart. The y axis starts at zero.
func (g *Generator) TrendBars(title string, points []aggregate.TrendPoint) ([]byte, error) {
	bars := make([]chart.Value, 0, len(points))
	peak := 0.0
	for _, p := range points {
		if v := p.Value.InexactFloat64(); v > peak {
			peak = v
		}
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: p.Value.InexactFloat64(),
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(160),
			},
		})
	}
	if peak == 0 {
		return nil, ErrNoData
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      g.Width,
		Height:     g.Height,
		BarWidth:   60,
		BarSpacing: 30,
		Background: g.background(),
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: peak},
			ValueFormatter: func(v interface{}) string {
				f, _ := v.(float64)
				return g.Format(decimal.NewFromFloat(f))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering trend chart: %w", err)
	}
	return buf.Bytes(), nil
}

// Report is the data behind a stats screen.
type Report struct {
	Title      string
	Categories []aggregate.Slice
	Trend      []aggregate.TrendPoint
}

// Images holds the rendered PNGs. A field is nil when its chart had no data.
type Images struct {
	Categories []byte
	Trend      []byte
}

// RenderAll renders both charts concurrently.
func (g *Generator) RenderAll(ctx context.Context, r Report) (Images, error) {
	var out Images
	log := logger.FromContext(ctx)
	eg, ctx := errgroup.WithContext(ctx)

	render := func(name string, dst *[]byte, draw func() ([]byte, error)) {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			png, err := draw()
			if errors.Is(err, ErrNoData) {
				log.Debug().Str("chart", name).Msg("nothing to draw")
				return nil
			}
			if err != nil {
				return err
			}
			log.Debug().Str("chart", name).Int("bytes", len(png)).Msg("chart rendered")
			*dst = png
			return nil
		})
	}
	render("categories", &out.Categories, func() ([]byte, error) {
		return g.CategoryPie(r.Title+" by category", r.Categories)
	})
	render("trend", &out.Trend, func() ([]byte, error) {
		return g.TrendBars(r.Title+" last 7 days", r.Trend)
	})

	if err := eg.Wait(); err != nil {
		return Images{}, err
	}
	return out, nil
}
