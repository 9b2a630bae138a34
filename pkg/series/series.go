// Package series computes change and risk statistics over dated price and
// volume observations.
//
// Inputs may arrive in any date order. When two points share a date the one
// appearing later in the input wins.
package series

import (
	"sort"
	"time"

	"github.com/iwvelando/finance-tracker/pkg/constants"
	"github.com/iwvelando/finance-tracker/pkg/datetime"
	"github.com/iwvelando/finance-tracker/pkg/mathutil"
)

// PricePoint is a NAV or closing price on a date.
type PricePoint struct {
	Date  time.Time
	Value float64
}

// VolumePoint is the traded volume on a date.
type VolumePoint struct {
	Date   time.Time
	Volume int64
}

// Changes holds the percentage change of the latest value against each
// lookback anchor. A window without an anchor reports 0.
type Changes struct {
	Day1   float64
	Week1  float64
	Month1 float64
	Month3 float64
	Month6 float64
	Year1  float64
}

// PercentageChange returns (current - previous) / previous * 100, or 0 when
// previous is 0.
func PercentageChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * constants.PercentageMultiplier
}

// ValueForDate returns the value at the latest date on or before target.
func ValueForDate(points []PricePoint, target time.Time) (float64, bool) {
	return valueForDate(descending(points), target)
}

func valueForDate(desc []PricePoint, target time.Time) (float64, bool) {
	v, _, ok := observation(desc, target)
	return v, ok
}

// ChangesOverWindows compares the latest value against the values one day,
// one week, one, three and six months, and one year earlier.
func ChangesOverWindows(points []PricePoint) Changes {
	desc := descending(points)
	if len(desc) == 0 {
		return Changes{}
	}
	latest := desc[0]

	change := func(anchor time.Time) float64 {
		v, ok := valueForDate(desc, anchor)
		if !ok {
			return 0
		}
		return PercentageChange(latest.Value, v)
	}

	return Changes{
		Day1:   change(latest.Date.AddDate(0, 0, -1)),
		Week1:  change(latest.Date.AddDate(0, 0, -7)),
		Month1: change(datetime.AddMonths(latest.Date, -1)),
		Month3: change(datetime.AddMonths(latest.Date, -3)),
		Month6: change(datetime.AddMonths(latest.Date, -6)),
		Year1:  change(latest.Date.AddDate(-1, 0, 0)),
	}
}

// Volatility returns the standard deviation, in percent, of the day-over-day
// simple returns across the most recent windowDays+1 points. It returns 0
// when fewer points are available. Returns off a zero price are skipped.
func Volatility(points []PricePoint, windowDays int) float64 {
	if windowDays < 1 {
		return 0
	}
	desc := descending(points)
	if len(desc) < windowDays+1 {
		return 0
	}

	window := desc[:windowDays+1]
	returns := make([]float64, 0, windowDays)
	// window is newest first, so window[i+1] is the previous day.
	for i := 0; i < windowDays; i++ {
		previous := window[i+1].Value
		if previous == 0 {
			continue
		}
		returns = append(returns, window[i].Value/previous-1)
	}
	return mathutil.StdDev(returns) * constants.PercentageMultiplier
}

// AverageVolume returns the mean of the most recent windowDays volumes, or of
// all of them when fewer are available. It returns 0 for an empty series.
func AverageVolume(points []VolumePoint, windowDays int) float64 {
	if len(points) == 0 || windowDays < 1 {
		return 0
	}

	desc := make([]VolumePoint, 0, len(points))
	seen := make(map[time.Time]int, len(points))
	for _, p := range points {
		day := datetime.Day(p.Date)
		p.Date = day
		if i, ok := seen[day]; ok {
			desc[i] = p
			continue
		}
		seen[day] = len(desc)
		desc = append(desc, p)
	}
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].Date.After(desc[j].Date) })

	if windowDays > len(desc) {
		windowDays = len(desc)
	}
	values := make([]float64, windowDays)
	for i := 0; i < windowDays; i++ {
		values[i] = float64(desc[i].Volume)
	}
	return mathutil.Mean(values)
}

// descending returns a de-duplicated copy of points, newest first, with dates
// truncated to the calendar day.
func descending(points []PricePoint) []PricePoint {
	out := make([]PricePoint, 0, len(points))
	seen := make(map[time.Time]int, len(points))
	for _, p := range points {
		day := datetime.Day(p.Date)
		p.Date = day
		if i, ok := seen[day]; ok {
			out[i] = p
			continue
		}
		seen[day] = len(out)
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
