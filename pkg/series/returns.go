package series

import (
	"fmt"
	"time"

	"github.com/iwvelando/finance-tracker/pkg/datetime"
	"github.com/iwvelando/finance-tracker/pkg/validation"
	"github.com/iwvelando/finance-tracker/pkg/xirr"
)

// RangeReturn is the performance of a holding between two dates.
type RangeReturn struct {
	From, To             time.Time
	StartValue, EndValue float64
	// AbsolutePercent is the plain percentage change between the two values.
	AbsolutePercent float64
	// XIRR is the annualized percent rate; zero when both values fall on the
	// same observation date or the holding ended worthless.
	XIRR          float64
	XIRRConverged bool
}

// Range measures the return of a unit bought at the value on or before from
// and sold at the value on or before to.
func Range(points []PricePoint, from, to time.Time) (RangeReturn, error) {
	if to.Before(from) {
		return RangeReturn{}, fmt.Errorf("%w: range end %s is before start %s",
			validation.ErrInvalidInput, datetime.Format(to), datetime.Format(from))
	}

	desc := descending(points)
	start, startDate, ok := observation(desc, from)
	if !ok {
		return RangeReturn{}, fmt.Errorf("%w: no value on or before %s", validation.ErrInvalidInput, datetime.Format(from))
	}
	end, endDate, _ := observation(desc, to)
	if start <= 0 {
		return RangeReturn{}, fmt.Errorf("%w: start value must be positive, got %v", validation.ErrInvalidInput, start)
	}

	r := RangeReturn{
		From:            startDate,
		To:              endDate,
		StartValue:      start,
		EndValue:        end,
		AbsolutePercent: PercentageChange(end, start),
	}
	if !endDate.After(startDate) || end <= 0 {
		return r, nil
	}

	result, err := xirr.SolveDefault(xirr.FromAmounts(start, startDate, end, endDate))
	if err != nil {
		return RangeReturn{}, err
	}
	r.XIRR = result.Rate
	r.XIRRConverged = result.Converged
	return r, nil
}

func observation(desc []PricePoint, target time.Time) (float64, time.Time, bool) {
	day := datetime.Day(target)
	for _, p := range desc {
		if !p.Date.After(day) {
			return p.Value, p.Date, true
		}
	}
	return 0, time.Time{}, false
}
