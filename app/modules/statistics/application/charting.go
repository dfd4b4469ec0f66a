package statsservice

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// ChartPalette carries the colors used by rendered charts.
type ChartPalette struct {
	Background  drawing.Color
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	TextColor   drawing.Color
}

// DefaultChartPalette is a light theme readable on white app backgrounds.
var DefaultChartPalette = ChartPalette{
	Background:  drawing.Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	PrimaryLine: drawing.Color{R: 0x1b, G: 0x5e, B: 0x20, A: 0xff},
	AccentLine:  drawing.Color{R: 0xc8, G: 0xa2, B: 0x2c, A: 0xff},
	TextColor:   drawing.Color{R: 0x21, G: 0x21, B: 0x21, A: 0xff},
}

// RenderScoringTrendChart renders a PNG line chart of the user's score to par
// over the completion dates in the timeframe.
func (s *StatisticsService) RenderScoringTrendChart(ctx context.Context, userID sharedtypes.UserID, timeframeDays int) ([]byte, error) {
	return withTelemetry(s, ctx, "RenderScoringTrendChart", func(ctx context.Context) ([]byte, error) {
		rounds, err := s.Rounds.GetRecentCompletedRounds(ctx, userID, timeframeDays, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to load rounds: %w", err)
		}
		// go-chart refuses a series with a single point.
		if len(rounds) < 2 {
			return nil, fmt.Errorf("user %s over %d days: %w", userID, timeframeDays, ErrInsufficientData)
		}
		return renderScoringTrend(rounds, DefaultChartPalette)
	})
}

func renderScoringTrend(rounds []roundtypes.Round, palette ChartPalette) ([]byte, error) {
	// Rounds arrive most recent first; the chart reads left to right in time.
	xValues := make([]time.Time, 0, len(rounds))
	yValues := make([]float64, 0, len(rounds))
	for i := len(rounds) - 1; i >= 0; i-- {
		r := rounds[i]
		if r.CompletedAt == nil {
			continue
		}
		xValues = append(xValues, *r.CompletedAt)
		yValues = append(yValues, float64(r.ScoreToPar))
	}

	mainSeries := chart.TimeSeries{
		Name:    "Score to Par",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.PrimaryLine,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.AccentLine,
		},
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		YAxis: chart.YAxis{
			Name: "Score to Par",
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buffer.Bytes(), nil
}
