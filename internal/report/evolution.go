package report

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

// EvolutionPoint is one month of a category's evolution series.
type EvolutionPoint struct {
	Year  int             `json:"year"`
	Month int             `json:"month"` // 1-12
	Total decimal.Decimal `json:"total"`
}

// BuildCategoryEvolution produces a contiguous monthly series for one
// category across [fromYear, toYear], zero-filled for months without
// transactions. Bucketing follows the accounting date and the net-amount
// precedence rule.
func BuildCategoryEvolution(
	transactions []*domain.Transaction,
	categoryID uuid.UUID,
	fromYear, toYear int,
) []EvolutionPoint {
	if toYear < fromYear {
		return nil
	}

	points := make([]EvolutionPoint, 0, (toYear-fromYear+1)*12)
	for year := fromYear; year <= toYear; year++ {
		for month := 1; month <= 12; month++ {
			points = append(points, EvolutionPoint{Year: year, Month: month, Total: decimal.Zero})
		}
	}

	for _, tx := range transactions {
		if tx.CategoryID != categoryID {
			continue
		}
		year := tx.AccountingDate.Year()
		if year < fromYear || year > toYear {
			continue
		}
		idx := (year-fromYear)*12 + int(tx.AccountingDate.Month()) - 1
		points[idx].Total = points[idx].Total.Add(tx.EffectiveAmount())
	}

	return points
}

// MonthSummary holds the hero totals for one month: expenses, income, their
// balance, and the comparison of each against the previous month.
type MonthSummary struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"` // 1-12
	Expenses          decimal.Decimal `json:"expenses"`
	Income            decimal.Decimal `json:"income"`
	Balance           decimal.Decimal `json:"balance"`
	ExpenseComparison Comparison      `json:"expenseComparison"`
	IncomeComparison  Comparison      `json:"incomeComparison"`
}

// BuildMonthSummary computes a month's expense and income totals plus their
// previous-month comparisons. The comparison reads the same year's series, so
// January compares against the same year's December.
func BuildMonthSummary(transactions []*domain.Transaction, year, month int) MonthSummary {
	expenses := typeTotalsByMonth(transactions, domain.CategoryTypeExpense, year)
	income := typeTotalsByMonth(transactions, domain.CategoryTypeIncome, year)

	monthIdx := month - 1
	return MonthSummary{
		Year:              year,
		Month:             month,
		Expenses:          expenses[monthIdx],
		Income:            income[monthIdx],
		Balance:           income[monthIdx].Sub(expenses[monthIdx]),
		ExpenseComparison: CompareWithPreviousMonth(expenses, monthIdx),
		IncomeComparison:  CompareWithPreviousMonth(income, monthIdx),
	}
}

func typeTotalsByMonth(transactions []*domain.Transaction, typ domain.CategoryType, year int) []decimal.Decimal {
	totals := zeroMonths()
	for _, tx := range transactions {
		if tx.Type != typ || tx.AccountingDate.Year() != year {
			continue
		}
		monthIdx := int(tx.AccountingDate.Month()) - 1
		totals[monthIdx] = totals[monthIdx].Add(tx.EffectiveAmount())
	}
	return totals
}
