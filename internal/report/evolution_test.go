package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

func TestBuildCategoryEvolution_ZeroFilledSeries(t *testing.T) {
	food := expenseCategory("Food")
	txs := []*domain.Transaction{
		makeTx(food, "2023-06-10", 100),
		makeTx(food, "2024-01-10", 200),
	}

	points := BuildCategoryEvolution(txs, food.ID, 2023, 2024)
	if len(points) != 24 {
		t.Fatalf("Expected 24 points for two years, got %d", len(points))
	}

	if !points[5].Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected June 2023 total 100, got %s", points[5].Total.String())
	}
	if !points[12].Total.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected January 2024 total 200, got %s", points[12].Total.String())
	}
	if !points[0].Total.IsZero() {
		t.Errorf("Expected January 2023 zero-filled, got %s", points[0].Total.String())
	}
}

func TestBuildCategoryEvolution_IgnoresOtherCategories(t *testing.T) {
	food := expenseCategory("Food")
	housing := expenseCategory("Housing")
	txs := []*domain.Transaction{
		makeTx(food, "2024-01-10", 100),
		makeTx(housing, "2024-01-10", 900),
	}

	points := BuildCategoryEvolution(txs, food.ID, 2024, 2024)
	if !points[0].Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected only Food amounts, got %s", points[0].Total.String())
	}
}

func TestBuildCategoryEvolution_InvertedRange(t *testing.T) {
	if points := BuildCategoryEvolution(nil, expenseCategory("Food").ID, 2024, 2023); points != nil {
		t.Errorf("Expected nil for inverted range, got %d points", len(points))
	}
}

func TestBuildMonthSummary_Totals(t *testing.T) {
	food := expenseCategory("Food")
	salary := incomeCategory("Salary")
	txs := []*domain.Transaction{
		makeTx(food, "2024-02-10", 400),
		makeTx(salary, "2024-02-01", 3000),
		makeTx(food, "2024-01-10", 500),
	}

	summary := BuildMonthSummary(txs, 2024, 2)
	if !summary.Expenses.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected expenses 400, got %s", summary.Expenses.String())
	}
	if !summary.Income.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Expected income 3000, got %s", summary.Income.String())
	}
	if !summary.Balance.Equal(decimal.NewFromInt(2600)) {
		t.Errorf("Expected balance 2600, got %s", summary.Balance.String())
	}

	// February expenses (400) against January (500) is -20%.
	if !summary.ExpenseComparison.Percentage.Equal(decimal.NewFromInt(-20)) {
		t.Errorf("Expected expense comparison -20%%, got %s", summary.ExpenseComparison.Percentage.String())
	}
}

func TestBuildMonthSummary_JanuaryComparesAgainstSameYearDecember(t *testing.T) {
	food := expenseCategory("Food")
	txs := []*domain.Transaction{
		makeTx(food, "2024-01-10", 300),
		makeTx(food, "2024-12-10", 200),
		makeTx(food, "2023-12-10", 999), // prior year must not be read
	}

	summary := BuildMonthSummary(txs, 2024, 1)
	if !summary.ExpenseComparison.Percentage.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected 50%% against same-year December, got %s", summary.ExpenseComparison.Percentage.String())
	}
}
