package report

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// Comparison holds the percentage and absolute delta between a month's total
// and a baseline.
type Comparison struct {
	Percentage   decimal.Decimal `json:"percentage"`
	AbsoluteDiff decimal.Decimal `json:"absoluteDiff"`
}

// CalculateComparison compares current against baseline. A zero baseline is
// reported as +100% when current is positive and 0% otherwise, so callers
// never see a division by zero.
func CalculateComparison(current, baseline decimal.Decimal) Comparison {
	if baseline.IsZero() {
		if current.IsPositive() {
			return Comparison{Percentage: oneHundred, AbsoluteDiff: current}
		}
		return Comparison{Percentage: decimal.Zero, AbsoluteDiff: decimal.Zero}
	}

	diff := current.Sub(baseline)
	return Comparison{
		Percentage:   diff.Div(baseline).Mul(oneHundred),
		AbsoluteDiff: diff,
	}
}

// CompareWithPreviousMonth compares the given month against the month before
// it within the same 12-element series. Month index 0 wraps to index 11 of the
// same series: January is compared against December of the same year, not the
// prior year.
func CompareWithPreviousMonth(totals []decimal.Decimal, monthIdx int) Comparison {
	previousIdx := monthIdx - 1
	if previousIdx < 0 {
		previousIdx = 11
	}
	return CalculateComparison(totals[monthIdx], totals[previousIdx])
}

// CompareWithAverage compares the given month against the arithmetic mean of
// the selected month indexes within the same series. An empty selection
// yields a zero baseline.
func CompareWithAverage(totals []decimal.Decimal, monthIdx int, selected []int) Comparison {
	if len(selected) == 0 {
		return CalculateComparison(totals[monthIdx], decimal.Zero)
	}

	sum := decimal.Zero
	for _, idx := range selected {
		sum = sum.Add(totals[idx])
	}
	average := sum.Div(decimal.NewFromInt(int64(len(selected))))

	return CalculateComparison(totals[monthIdx], average)
}
