// Package report implements the accounting aggregations: category and
// sub-category rollups by month and year, period comparisons, and
// percentage-of-total distributions. Everything here is derived from a flat
// transaction list and recomputed from scratch on every call; nothing is
// persisted or cached.
package report

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

// CategoryRollup aggregates one category's transactions for a single year.
type CategoryRollup struct {
	CategoryID    uuid.UUID           `json:"categoryId"`
	CategoryName  string              `json:"categoryName"`
	Type          domain.CategoryType `json:"type"`
	YearTotal     decimal.Decimal     `json:"yearTotal"`
	MonthlyTotals []decimal.Decimal   `json:"monthlyTotals"`
	SubCategories []SubCategoryRollup `json:"subCategories"`
}

// SubCategoryRollup aggregates one sub-category within its parent rollup.
// SubCategoryID is nil for the bucket of transactions without a sub-category.
type SubCategoryRollup struct {
	SubCategoryID *uuid.UUID        `json:"subCategoryId,omitempty"`
	Name          string            `json:"name"`
	YearTotal     decimal.Decimal   `json:"yearTotal"`
	MonthlyTotals []decimal.Decimal `json:"monthlyTotals"`
}

// UncategorizedLabel names the sub-category bucket for transactions that
// carry no sub-category.
const UncategorizedLabel = "Sans sous-catégorie"

func zeroMonths() []decimal.Decimal {
	months := make([]decimal.Decimal, 12)
	for i := range months {
		months[i] = decimal.Zero
	}
	return months
}

type rollupBuilder struct {
	category     *domain.Category
	monthly      []decimal.Decimal
	yearTotal    decimal.Decimal
	subBuilders  map[uuid.UUID]*subRollupBuilder
	noSubBuilder *subRollupBuilder
	subOrder     []uuid.UUID
}

type subRollupBuilder struct {
	id        *uuid.UUID
	name      string
	monthly   []decimal.Decimal
	yearTotal decimal.Decimal
}

func newSubRollupBuilder(id *uuid.UUID, name string) *subRollupBuilder {
	return &subRollupBuilder{id: id, name: name, monthly: zeroMonths()}
}

func (b *subRollupBuilder) add(month int, amount decimal.Decimal) {
	b.monthly[month] = b.monthly[month].Add(amount)
	b.yearTotal = b.yearTotal.Add(amount)
}

// BuildCategoryRollups groups transactions of the requested type and year into
// one rollup per category, with nested rollups for every sub-category actually
// referenced. Bucketing uses the accounting date. The net amount, when set,
// supersedes the raw amount for every sum. Categories whose year total is zero
// are dropped.
//
// The search argument filters the result with OR semantics across category and
// sub-category names: a sub-category match keeps its parent category (listing
// only the matching sub-categories), while a category-name match keeps the
// category with all of its sub-categories.
func BuildCategoryRollups(
	transactions []*domain.Transaction,
	categories []*domain.Category,
	subCategories []*domain.SubCategory,
	typ domain.CategoryType,
	year int,
	search string,
) []CategoryRollup {
	// Pre-seed only categories of the requested type. A transaction whose
	// sub-category points at a category of the other type finds no builder
	// here and is skipped without a sub-rollup.
	builders := make(map[uuid.UUID]*rollupBuilder, len(categories))
	order := make([]uuid.UUID, 0, len(categories))
	for _, cat := range categories {
		if cat.Type != typ {
			continue
		}
		builders[cat.ID] = &rollupBuilder{
			category:    cat,
			monthly:     zeroMonths(),
			subBuilders: make(map[uuid.UUID]*subRollupBuilder),
		}
		order = append(order, cat.ID)
	}

	subsByID := make(map[uuid.UUID]*domain.SubCategory, len(subCategories))
	for _, sub := range subCategories {
		subsByID[sub.ID] = sub
	}

	for _, tx := range transactions {
		if tx.AccountingDate.Year() != year {
			continue
		}
		builder, ok := builders[tx.CategoryID]
		if !ok {
			continue
		}
		month := int(tx.AccountingDate.Month()) - 1
		amount := tx.EffectiveAmount()

		builder.monthly[month] = builder.monthly[month].Add(amount)
		builder.yearTotal = builder.yearTotal.Add(amount)

		if tx.SubCategoryID != nil {
			sub, known := subsByID[*tx.SubCategoryID]
			if !known {
				continue
			}
			sb, exists := builder.subBuilders[sub.ID]
			if !exists {
				sb = newSubRollupBuilder(&sub.ID, sub.Name)
				builder.subBuilders[sub.ID] = sb
				builder.subOrder = append(builder.subOrder, sub.ID)
			}
			sb.add(month, amount)
		} else {
			if builder.noSubBuilder == nil {
				builder.noSubBuilder = newSubRollupBuilder(nil, UncategorizedLabel)
			}
			builder.noSubBuilder.add(month, amount)
		}
	}

	needle := strings.ToLower(strings.TrimSpace(search))

	rollups := make([]CategoryRollup, 0, len(order))
	for _, id := range order {
		builder := builders[id]
		if builder.yearTotal.IsZero() {
			continue
		}

		categoryMatches := needle == "" || strings.Contains(strings.ToLower(builder.category.Name), needle)

		subs := make([]SubCategoryRollup, 0, len(builder.subOrder)+1)
		anySubMatches := false
		for _, subID := range builder.subOrder {
			sb := builder.subBuilders[subID]
			subMatches := needle == "" || strings.Contains(strings.ToLower(sb.name), needle)
			if subMatches {
				anySubMatches = true
			}
			if categoryMatches || subMatches {
				subs = append(subs, SubCategoryRollup{
					SubCategoryID: sb.id,
					Name:          sb.name,
					YearTotal:     sb.yearTotal,
					MonthlyTotals: sb.monthly,
				})
			}
		}
		if builder.noSubBuilder != nil && categoryMatches {
			subs = append(subs, SubCategoryRollup{
				Name:          builder.noSubBuilder.name,
				YearTotal:     builder.noSubBuilder.yearTotal,
				MonthlyTotals: builder.noSubBuilder.monthly,
			})
		}

		if !categoryMatches && !anySubMatches {
			continue
		}

		rollups = append(rollups, CategoryRollup{
			CategoryID:    builder.category.ID,
			CategoryName:  builder.category.Name,
			Type:          builder.category.Type,
			YearTotal:     builder.yearTotal,
			MonthlyTotals: builder.monthly,
			SubCategories: subs,
		})
	}

	return rollups
}

// MonthlyTotals sums the rollups' monthly series into one 12-element series.
func MonthlyTotals(rollups []CategoryRollup) []decimal.Decimal {
	totals := zeroMonths()
	for _, rollup := range rollups {
		for i, amount := range rollup.MonthlyTotals {
			totals[i] = totals[i].Add(amount)
		}
	}
	return totals
}
