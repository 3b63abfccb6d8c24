package plot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	modeldb "roundbread-bot/internal/lib/database/model"
)

const (
	chartWidth      = 1200
	chartHeight     = 700
	titleFontSize   = 18.0
	axisFontSize    = 12.0
	seriesLineWidth = 2.5
	seriesDotWidth  = 5.0
)

var (
	teal   = drawing.Color{R: 0, G: 128, B: 128, A: 255}
	orange = drawing.Color{R: 255, G: 165, B: 0, A: 255}
)

// ErrNoData нечего рисовать
var ErrNoData = errors.New("no roundness history to plot")

// RenderRoundnessHistory рисует историю в PNG, округлость в процентах
func RenderRoundnessHistory(points []modeldb.HistoryPoint, w io.Writer) error {
	if len(points) == 0 {
		return ErrNoData
	}

	xValues := make([]float64, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = float64(p.Rank)
		yValues[i] = p.Roundness * 100
	}

	graph := chart.Chart{
		Title:      "Amazing roundness history for User",
		TitleStyle: chart.Style{FontSize: titleFontSize},
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:      "X",
			NameStyle: chart.Style{FontSize: axisFontSize},
			Style:     chart.Style{FontSize: axisFontSize},
			// явный диапазон, иначе одна точка дает нулевой диапазон
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(points) + 1)},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:      "Y (%)",
			NameStyle: chart.Style{FontSize: axisFontSize},
			Style:     chart.Style{FontSize: axisFontSize},
			Range:     &chart.ContinuousRange{Min: 0, Max: 100},
			GridMajorStyle: chart.Style{
				StrokeColor: chart.ColorAlternateGray,
				StrokeWidth: 1,
			},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "roundness",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor:     teal,
					StrokeWidth:     seriesLineWidth,
					StrokeDashArray: []float64{5, 5},
					DotColor:        orange,
					DotWidth:        seriesDotWidth,
				},
			},
		},
	}

	return graph.Render(chart.PNG, w)
}

// SaveRoundnessHistory рисует историю в файл path
func SaveRoundnessHistory(points []modeldb.HistoryPoint, path string) error {
	buf := new(bytes.Buffer)
	if err := RenderRoundnessHistory(points, buf); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
