package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mbriand/comptoir-backend/internal/domain"
	"github.com/mbriand/comptoir-backend/internal/report"
	"github.com/mbriand/comptoir-backend/internal/util"
)

// ReportService assembles the accounting reports by fetching the raw rows and
// delegating the aggregation to the report package
type ReportService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	subCategoryRepo domain.SubCategoryRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	subCategoryRepo domain.SubCategoryRepository,
) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		subCategoryRepo: subCategoryRepo,
	}
}

// reportInputs holds the rows every report is computed from
type reportInputs struct {
	transactions  []*domain.Transaction
	categories    []*domain.Category
	subCategories []*domain.SubCategory
}

// fetchInputs loads transactions, categories and sub-categories concurrently
func (s *ReportService) fetchInputs(ctx context.Context, organizationID, userID uuid.UUID, visibility domain.Visibility) (*reportInputs, error) {
	switch visibility {
	case domain.VisibilityAll, domain.VisibilityCommon, domain.VisibilityPersonal, "":
	default:
		return nil, domain.ErrInvalidVisibility
	}

	inputs := &reportInputs{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		inputs.transactions, err = s.transactionRepo.GetByOrganization(gctx, organizationID, &domain.TransactionFilters{
			Visibility: visibility,
			UserID:     userID,
		})
		return err
	})
	g.Go(func() error {
		var err error
		inputs.categories, err = s.categoryRepo.GetByOrganization(gctx, organizationID, nil)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.subCategories, err = s.subCategoryRepo.GetByOrganization(gctx, organizationID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

// RollupQuery narrows a category rollup report
type RollupQuery struct {
	Type       domain.CategoryType
	Year       int
	Search     string
	Visibility domain.Visibility
}

// GetCategoryRollups builds the per-category monthly rollup table for a year
func (s *ReportService) GetCategoryRollups(ctx context.Context, organizationID, userID uuid.UUID, query RollupQuery) ([]report.CategoryRollup, error) {
	if query.Type != domain.CategoryTypeIncome && query.Type != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidCategoryType
	}

	inputs, err := s.fetchInputs(ctx, organizationID, userID, query.Visibility)
	if err != nil {
		return nil, err
	}
	return report.BuildCategoryRollups(inputs.transactions, inputs.categories, inputs.subCategories, query.Type, query.Year, query.Search), nil
}

// DistributionQuery narrows a distribution report
type DistributionQuery struct {
	Type             domain.CategoryType
	Year             int
	AllSubCategories bool
	CompareYears     bool
	Visibility       domain.Visibility
}

// GetDistribution builds the category distribution for a year
func (s *ReportService) GetDistribution(ctx context.Context, organizationID, userID uuid.UUID, query DistributionQuery) ([]report.DistributionNode, error) {
	if query.Type != domain.CategoryTypeIncome && query.Type != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidCategoryType
	}

	inputs, err := s.fetchInputs(ctx, organizationID, userID, query.Visibility)
	if err != nil {
		return nil, err
	}
	return report.BuildDistribution(inputs.transactions, inputs.categories, inputs.subCategories, query.Type, query.Year, report.DistributionOptions{
		AllSubCategories: query.AllSubCategories,
		CompareYears:     query.CompareYears,
	}), nil
}

// ComparisonQuery selects the month and baseline of a comparison
type ComparisonQuery struct {
	Type           domain.CategoryType
	Year           int
	Month          int // 1-12
	SelectedMonths []int
	Visibility     domain.Visibility
}

// ComparisonResult pairs the previous-month and average comparisons
type ComparisonResult struct {
	PreviousMonth report.Comparison `json:"previousMonth"`
	Average       report.Comparison `json:"average"`
}

// GetComparison compares one month's total against the previous month and
// against the average of a month selection
func (s *ReportService) GetComparison(ctx context.Context, organizationID, userID uuid.UUID, query ComparisonQuery) (*ComparisonResult, error) {
	if query.Type != domain.CategoryTypeIncome && query.Type != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidCategoryType
	}
	if !util.IsValidMonth(query.Month) {
		return nil, domain.ErrInvalidInput
	}

	inputs, err := s.fetchInputs(ctx, organizationID, userID, query.Visibility)
	if err != nil {
		return nil, err
	}

	rollups := report.BuildCategoryRollups(inputs.transactions, inputs.categories, inputs.subCategories, query.Type, query.Year, "")
	totals := report.MonthlyTotals(rollups)
	idx := query.Month - 1

	// SelectedMonths arrive 1-based; the totals series is indexed 0-based
	var selected []int
	for _, m := range query.SelectedMonths {
		if !util.IsValidMonth(m) {
			return nil, domain.ErrInvalidInput
		}
		selected = append(selected, m-1)
	}
	if len(selected) == 0 {
		// Default to every other month of the year
		for i := 0; i < 12; i++ {
			if i != idx {
				selected = append(selected, i)
			}
		}
	}

	return &ComparisonResult{
		PreviousMonth: report.CompareWithPreviousMonth(totals, idx),
		Average:       report.CompareWithAverage(totals, idx, selected),
	}, nil
}

// EvolutionQuery selects a category and year range
type EvolutionQuery struct {
	CategoryID uuid.UUID
	FromYear   int
	ToYear     int
	Visibility domain.Visibility
}

// GetCategoryEvolution builds the zero-filled monthly series of one category
func (s *ReportService) GetCategoryEvolution(ctx context.Context, organizationID, userID uuid.UUID, query EvolutionQuery) ([]report.EvolutionPoint, error) {
	if query.ToYear < query.FromYear {
		return nil, domain.ErrInvalidDateRange
	}
	if _, err := s.categoryRepo.GetByID(ctx, organizationID, query.CategoryID); err != nil {
		return nil, err
	}

	inputs, err := s.fetchInputs(ctx, organizationID, userID, query.Visibility)
	if err != nil {
		return nil, err
	}
	return report.BuildCategoryEvolution(inputs.transactions, query.CategoryID, query.FromYear, query.ToYear), nil
}

// GetMonthSummary builds the hero totals of a month with previous-month
// comparisons
func (s *ReportService) GetMonthSummary(ctx context.Context, organizationID, userID uuid.UUID, year, month int, visibility domain.Visibility) (*report.MonthSummary, error) {
	if !util.IsValidMonth(month) {
		return nil, domain.ErrInvalidInput
	}

	inputs, err := s.fetchInputs(ctx, organizationID, userID, visibility)
	if err != nil {
		return nil, err
	}
	summary := report.BuildMonthSummary(inputs.transactions, year, month)
	return &summary, nil
}
