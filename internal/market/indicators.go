package market

import (
	"math"
	"sort"
)

// Trend classifies the direction of a price history.
type Trend string

const (
	TrendBull     Trend = "bull"
	TrendBear     Trend = "bear"
	TrendSideways Trend = "sideways"
)

// Label returns a display name for the trend.
func (t Trend) Label() string {
	switch t {
	case TrendBull:
		return "Bull market"
	case TrendBear:
		return "Bear market"
	default:
		return "Sideways"
	}
}

// SMA returns the simple moving average of values over window. The first
// window-1 points are NaN.
func SMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// RSI returns the relative strength index using Wilder smoothing. The first
// period points are NaN.
func RSI(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(values) <= period {
		return out
	}

	var gain, loss float64
	for i := 1; i <= period; i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain /= float64(period)
	loss /= float64(period)
	out[period] = rsiValue(gain, loss)

	n := float64(period)
	for i := period + 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		gain = (gain*(n-1) + g) / n
		loss = (loss*(n-1) + l) / n
		out[i] = rsiValue(gain, loss)
	}
	return out
}

func rsiValue(gain, loss float64) float64 {
	if loss == 0 {
		if gain == 0 {
			return 50
		}
		return 100
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

// Bands holds Bollinger band lines. Warm-up points are NaN.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger returns bands k sample standard deviations around the n-day SMA.
func Bollinger(values []float64, n int, k float64) Bands {
	mid := SMA(values, n)
	b := Bands{
		Upper:  make([]float64, len(values)),
		Middle: mid,
		Lower:  make([]float64, len(values)),
	}
	for i := range values {
		if math.IsNaN(mid[i]) || n < 2 {
			b.Upper[i] = math.NaN()
			b.Lower[i] = math.NaN()
			continue
		}
		var ss float64
		for _, v := range values[i-n+1 : i+1] {
			d := v - mid[i]
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(n-1))
		b.Upper[i] = mid[i] + k*sd
		b.Lower[i] = mid[i] - k*sd
	}
	return b
}

// Median returns the middle value, or NaN when values is empty.
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Quantile returns the q-th quantile using linear interpolation between the
// closest ranks. It returns NaN when values is empty.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q = math.Max(0, math.Min(1, q))
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// High returns the maximum, or NaN when values is empty.
func High(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Max(m, v)
	}
	return m
}

// Low returns the minimum, or NaN when values is empty.
func Low(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Min(m, v)
	}
	return m
}

// Latest returns the last non-NaN value.
func Latest(values []float64) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i], true
		}
	}
	return 0, false
}

// TrendOf classifies closes by comparing the last close to the peak and the
// trough. A drop of TrendThreshold from the peak is a bear market; a rise of
// TrendThreshold from the trough is a bull market.
func TrendOf(closes []float64) Trend {
	if len(closes) < 2 {
		return TrendSideways
	}
	last := closes[len(closes)-1]
	peak, trough := High(closes), Low(closes)
	if peak > 0 && (peak-last)/peak >= TrendThreshold {
		return TrendBear
	}
	if trough > 0 && (last-trough)/trough >= TrendThreshold {
		return TrendBull
	}
	return TrendSideways
}
