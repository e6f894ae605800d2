// Package charts builds the concept studies drawn next to flashcards.
package charts

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/market"
)

// LevelWindow is the number of recent closes a support or resistance level
// is computed over.
const LevelWindow = 200

// Series colors.
const (
	ColorPrice   = "#00A693"
	ColorShortMA = "#FFA500"
	ColorLongMA  = "#800080"
	ColorSupport = "#00FF00"
	ColorResist  = "#FF0000"
	ColorBand    = "#17A2B8"
	ColorVolume  = "#00A693"
)

// Line is an overlay drawn over the price. Warm-up points are NaN.
type Line struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Color  string    `json:"color"`
}

// MarshalJSON encodes NaN points as null.
func (l Line) MarshalJSON() ([]byte, error) {
	vals := make([]*float64, len(l.Values))
	for i := range l.Values {
		if !math.IsNaN(l.Values[i]) {
			vals[i] = &l.Values[i]
		}
	}
	return json.Marshal(struct {
		Label  string     `json:"label"`
		Values []*float64 `json:"values"`
		Color  string     `json:"color"`
	}{l.Label, vals, l.Color})
}

// Level is a horizontal reference line.
type Level struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// View is a rendered concept study.
type View struct {
	Symbol  string          `json:"symbol"`
	Concept catalog.Concept `json:"concept"`
	Dates   []time.Time     `json:"dates"`
	Closes  []float64       `json:"closes"`
	Lines   []Line          `json:"lines,omitempty"`
	Level   *Level          `json:"level,omitempty"`
	Note    string          `json:"note,omitempty"`
}

// Empty reports whether the study has nothing to draw.
func (v View) Empty() bool { return len(v.Closes) == 0 }

// Title returns the chart heading.
func (v View) Title() string {
	return "Simplified View: " + v.Symbol
}

// Study builds the view of concept over series. An empty series yields an
// empty view.
func Study(series market.Series, concept catalog.Concept) View {
	v := View{Symbol: series.Symbol, Concept: concept}
	if series.Empty() {
		return v
	}
	v.Closes = series.Closes()
	v.Dates = make([]time.Time, series.Len())
	for i, b := range series.Bars {
		v.Dates[i] = b.Date
	}

	switch concept {
	case catalog.ConceptSupport, catalog.ConceptResistance, catalog.ConceptBreakout:
		recent := series.Tail(LevelWindow).Closes()
		lvl := &Level{Label: titleCase(string(concept)), Color: ColorResist}
		if concept == catalog.ConceptSupport {
			lvl.Value = market.Median(recent)
			lvl.Color = ColorSupport
		} else {
			lvl.Value = market.Quantile(recent, 0.75)
		}
		v.Level = lvl
		v.Note = "This simplified chart highlights a key price level. Notice how the price interacts with the " +
			string(concept) + " line."
	case catalog.ConceptMovingAverage:
		v.Lines = []Line{
			{Label: "50-Day MA", Values: market.SMA(v.Closes, market.ShortMAPeriod), Color: ColorShortMA},
		}
		v.Note = "The orange line is the 50-day moving average. It smooths out price action to show the trend more clearly."
	case catalog.ConceptCross:
		v.Lines = []Line{
			{Label: "50-Day MA", Values: market.SMA(v.Closes, market.ShortMAPeriod), Color: ColorShortMA},
			{Label: "200-Day MA", Values: market.SMA(v.Closes, market.LongMAPeriod), Color: ColorLongMA},
		}
		v.Note = "This chart shows the 50-day (orange) and 200-day (purple) moving averages. A 'Golden Cross' (orange over purple) is bullish."
	case catalog.ConceptBollinger:
		b := market.Bollinger(v.Closes, market.BollingerN, market.BollingerK)
		v.Lines = []Line{
			{Label: "Upper Band", Values: b.Upper, Color: ColorBand},
			{Label: "20-Day SMA", Values: b.Middle, Color: ColorShortMA},
			{Label: "Lower Band", Values: b.Lower, Color: ColorBand},
		}
		v.Note = "The bands sit two standard deviations around the 20-day average. They widen when volatility rises and squeeze when it falls."
	case catalog.ConceptRSI:
		v.Lines = []Line{
			{Label: "RSI (14)", Values: market.RSI(v.Closes, market.RSIPeriod), Color: ColorShortMA},
		}
		v.Note = "Readings above 70 suggest overbought conditions; readings below 30 suggest oversold."
	case catalog.ConceptVolume:
		v.Lines = []Line{
			{Label: "Volume", Values: series.Volumes(), Color: ColorVolume},
		}
		v.Note = "Volume shows how many shares changed hands each day. Big moves on high volume carry more conviction."
	case catalog.ConceptTrend:
		v.Note = "Trend: " + market.TrendOf(v.Closes).Label() + "."
	}
	return v
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
