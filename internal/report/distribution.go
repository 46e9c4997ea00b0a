package report

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbriand/comptoir-backend/internal/domain"
)

// DistributionNode is one slice of a percentage-of-total breakdown. In nested
// mode the top-level nodes are categories (percentage of the grand total) and
// their children are sub-categories (percentage of the PARENT amount). In flat
// mode every node is a sub-category bucket and percentages are computed
// against the grand total.
type DistributionNode struct {
	Key           string          `json:"key"`
	CategoryID    uuid.UUID       `json:"categoryId"`
	SubCategoryID *uuid.UUID      `json:"subCategoryId,omitempty"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Percentage    decimal.Decimal `json:"percentage"`

	PreviousYearAmount     *decimal.Decimal `json:"previousYearAmount,omitempty"`
	PreviousYearPercentage *decimal.Decimal `json:"previousYearPercentage,omitempty"`
	PercentageChange       *decimal.Decimal `json:"percentageChange,omitempty"`

	SubCategories []DistributionNode `json:"subCategories,omitempty"`
}

// DistributionOptions selects the breakdown mode.
type DistributionOptions struct {
	// AllSubCategories flattens the output to one node per sub-category
	// bucket, percentages relative to the grand total.
	AllSubCategories bool
	// CompareYears attaches the previous year's amount and percentage to
	// each node, matched by bucket key.
	CompareYears bool
}

// noSubKey is the synthetic bucket key for transactions without a
// sub-category in flat mode.
func noSubKey(categoryID uuid.UUID) string {
	return fmt.Sprintf("no-sub-%s", categoryID)
}

// BuildDistribution computes each bucket's share of the type's total for the
// given year. See DistributionNode for the two percentage bases.
func BuildDistribution(
	transactions []*domain.Transaction,
	categories []*domain.Category,
	subCategories []*domain.SubCategory,
	typ domain.CategoryType,
	year int,
	opts DistributionOptions,
) []DistributionNode {
	nodes := buildDistributionForYear(transactions, categories, subCategories, typ, year, opts.AllSubCategories)

	if opts.CompareYears {
		previous := buildDistributionForYear(transactions, categories, subCategories, typ, year-1, opts.AllSubCategories)
		attachPreviousYear(nodes, indexByKey(previous))
	}

	return nodes
}

func buildDistributionForYear(
	transactions []*domain.Transaction,
	categories []*domain.Category,
	subCategories []*domain.SubCategory,
	typ domain.CategoryType,
	year int,
	flat bool,
) []DistributionNode {
	rollups := BuildCategoryRollups(transactions, categories, subCategories, typ, year, "")

	grandTotal := decimal.Zero
	for _, rollup := range rollups {
		grandTotal = grandTotal.Add(rollup.YearTotal)
	}

	if flat {
		return flatNodes(rollups, grandTotal)
	}
	return nestedNodes(rollups, grandTotal)
}

func nestedNodes(rollups []CategoryRollup, grandTotal decimal.Decimal) []DistributionNode {
	nodes := make([]DistributionNode, 0, len(rollups))
	for _, rollup := range rollups {
		node := DistributionNode{
			Key:        rollup.CategoryID.String(),
			CategoryID: rollup.CategoryID,
			Name:       rollup.CategoryName,
			Amount:     rollup.YearTotal,
			Percentage: percentageOf(rollup.YearTotal, grandTotal),
		}

		// Sub-category percentages use the parent category's amount as the
		// denominator, not the grand total.
		node.SubCategories = make([]DistributionNode, 0, len(rollup.SubCategories))
		for _, sub := range rollup.SubCategories {
			key := noSubKey(rollup.CategoryID)
			if sub.SubCategoryID != nil {
				key = sub.SubCategoryID.String()
			}
			node.SubCategories = append(node.SubCategories, DistributionNode{
				Key:           key,
				CategoryID:    rollup.CategoryID,
				SubCategoryID: sub.SubCategoryID,
				Name:          sub.Name,
				Amount:        sub.YearTotal,
				Percentage:    percentageOf(sub.YearTotal, rollup.YearTotal),
			})
		}

		nodes = append(nodes, node)
	}
	return nodes
}

func flatNodes(rollups []CategoryRollup, grandTotal decimal.Decimal) []DistributionNode {
	nodes := make([]DistributionNode, 0)
	for _, rollup := range rollups {
		// Every transaction is re-bucketed by sub-category; transactions
		// without one fall into a synthetic per-category bucket.
		covered := decimal.Zero
		for _, sub := range rollup.SubCategories {
			if sub.SubCategoryID == nil {
				continue
			}
			covered = covered.Add(sub.YearTotal)
			nodes = append(nodes, DistributionNode{
				Key:           sub.SubCategoryID.String(),
				CategoryID:    rollup.CategoryID,
				SubCategoryID: sub.SubCategoryID,
				Name:          sub.Name,
				Amount:        sub.YearTotal,
				Percentage:    percentageOf(sub.YearTotal, grandTotal),
			})
		}

		remainder := rollup.YearTotal.Sub(covered)
		if !remainder.IsZero() {
			nodes = append(nodes, DistributionNode{
				Key:        noSubKey(rollup.CategoryID),
				CategoryID: rollup.CategoryID,
				Name:       rollup.CategoryName,
				Amount:     remainder,
				Percentage: percentageOf(remainder, grandTotal),
			})
		}
	}
	return nodes
}

func percentageOf(amount, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return amount.Div(total).Mul(oneHundred)
}

func indexByKey(nodes []DistributionNode) map[string]DistributionNode {
	index := make(map[string]DistributionNode, len(nodes))
	for _, node := range nodes {
		index[node.Key] = node
		for _, sub := range node.SubCategories {
			index[sub.Key] = sub
		}
	}
	return index
}

func attachPreviousYear(nodes []DistributionNode, previous map[string]DistributionNode) {
	for i := range nodes {
		prevAmount := decimal.Zero
		prevPercentage := decimal.Zero
		if prev, ok := previous[nodes[i].Key]; ok {
			prevAmount = prev.Amount
			prevPercentage = prev.Percentage
		}

		change := CalculateComparison(nodes[i].Amount, prevAmount).Percentage

		nodes[i].PreviousYearAmount = &prevAmount
		nodes[i].PreviousYearPercentage = &prevPercentage
		nodes[i].PercentageChange = &change

		attachPreviousYear(nodes[i].SubCategories, previous)
	}
}
