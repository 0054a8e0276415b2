package comparison

import (
	"fmt"

	"bankcompare/schema"
)

// MultiRow строка многобанковой сравнительной таблицы
type MultiRow struct {
	Attribute   string            `json:"attribute"`
	Parameter   string            `json:"parameter"`
	Reference   string            `json:"reference"`
	Competitors map[string]string `json:"competitors"`
	BestBank    string            `json:"best_bank,omitempty"`
}

// MultiResult результат сравнения опорного банка с несколькими конкурентами
type MultiResult struct {
	Table                []MultiRow          `json:"comparison_table"`
	Insights             []string            `json:"insights"`
	ReferenceAdvantages  []string            `json:"reference_advantages"`
	CompetitorHighlights map[string][]string `json:"competitor_highlights"`
	Recommendation       string              `json:"recommendation"`
}

// CompareMany сравнивает продукт опорного банка с несколькими конкурентами.
// Название банка каждого конкурента берется из его канонической записи.
func (c *Comparator) CompareMany(reference schema.CanonicalRecord, competitors []schema.CanonicalRecord, productType schema.ProductType) *MultiResult {
	if len(competitors) == 0 {
		return emptyMultiResult()
	}

	productSchema := schema.For(productType)
	refBank := bankLabel(reference, "Опорный банк")

	bankNames := make([]string, 0, len(competitors))
	for i, comp := range competitors {
		name := comp["bank"]
		if name == "" {
			name = fmt.Sprintf("Банк %d", i+1)
		}
		bankNames = append(bankNames, name)
	}

	table := make([]MultiRow, 0, len(productSchema.Attributes)+1)
	refWins := map[string]int{}
	highlights := map[string][]string{}
	for _, name := range bankNames {
		highlights[name] = []string{}
	}

	for _, field := range productSchema.FieldNames() {
		row := MultiRow{
			Attribute:   field,
			Parameter:   productSchema.DisplayName(field),
			Reference:   valueOrSentinel(reference, field),
			Competitors: make(map[string]string, len(competitors)),
		}
		for i, comp := range competitors {
			row.Competitors[bankNames[i]] = valueOrSentinel(comp, field)
		}

		if best, ok := c.bestBank(row, field, productType, refBank, bankNames); ok {
			row.BestBank = best
			if best == refBank {
				refWins[field]++
			} else {
				highlights[best] = append(highlights[best],
					fmt.Sprintf("• %s: %s", field, row.Competitors[best]))
			}
		}

		table = append(table, row)
	}

	refAdvantages := []string{}
	for _, field := range productSchema.FieldNames() {
		if refWins[field] > 0 {
			refAdvantages = append(refAdvantages,
				fmt.Sprintf("• %s: %s", field, valueOrSentinel(reference, field)))
		}
	}

	return &MultiResult{
		Table:                table,
		Insights:             c.multiInsights(table, refBank),
		ReferenceAdvantages:  refAdvantages,
		CompetitorHighlights: highlights,
		Recommendation:       c.multiRecommendation(refAdvantages, highlights, refBank, bankNames),
	}
}

// bestBank определяет банк с лучшим значением направленного атрибута строки.
// Банки обходятся в порядке запроса (опорный первым), при равных значениях
// выигрывает первый: результат не зависит от порядка обхода map
func (c *Comparator) bestBank(row MultiRow, field string, productType schema.ProductType, refBank string, bankNames []string) (string, bool) {
	if !isComparable(field) {
		return "", false
	}

	lowerWins := true
	if field == "interest_rate" && productType == schema.Deposit {
		lowerWins = false
	}

	bestBank := ""
	bestValue := 0.0
	found := false

	consider := func(bank, value string) {
		n, ok := c.extractRate(value)
		if !ok {
			return
		}
		if !found || (lowerWins && n < bestValue) || (!lowerWins && n > bestValue) {
			bestBank, bestValue, found = bank, n, true
		}
	}

	consider(refBank, row.Reference)
	for _, bank := range bankNames {
		consider(bank, row.Competitors[bank])
	}

	return bestBank, found
}

// multiInsights формирует выводы по строкам со ставками
func (c *Comparator) multiInsights(table []MultiRow, refBank string) []string {
	insights := []string{}
	for _, row := range table {
		if row.Attribute != "interest_rate" || row.BestBank == "" {
			continue
		}
		if row.BestBank == refBank {
			insights = append(insights, fmt.Sprintf("✓ %s предлагает лучшую ставку: %s", refBank, row.Reference))
		} else {
			insights = append(insights, fmt.Sprintf("⚠️ Лучшая ставка у %s: %s", row.BestBank, row.Competitors[row.BestBank]))
		}
	}
	return insights
}

// multiRecommendation выбирает лидера по числу преимуществ.
// При равенстве лидерство остается за опорным банком, между конкурентами -
// за первым в порядке запроса
func (c *Comparator) multiRecommendation(refAdvantages []string, highlights map[string][]string, refBank string, bankNames []string) string {
	leader := refBank
	leaderCount := len(refAdvantages)
	for _, bank := range bankNames {
		if len(highlights[bank]) > leaderCount {
			leaderCount = len(highlights[bank])
			leader = bank
		}
	}

	if leaderCount == 0 {
		return "Условия примерно сопоставимы"
	}
	if leader == refBank {
		return fmt.Sprintf("%s имеет более конкурентное предложение", refBank)
	}
	return fmt.Sprintf("%s имеет лучшие условия - рекомендуется пересмотреть", leader)
}

func isComparable(field string) bool {
	for _, attr := range comparableAttributes {
		if attr == field {
			return true
		}
	}
	return false
}

func valueOrSentinel(record schema.CanonicalRecord, field string) string {
	if v, ok := record[field]; ok {
		return v
	}
	return schema.Sentinel
}

func emptyMultiResult() *MultiResult {
	return &MultiResult{
		Table:                []MultiRow{},
		Insights:             []string{"⚠️ Не выбраны банки для сравнения"},
		ReferenceAdvantages:  []string{},
		CompetitorHighlights: map[string][]string{},
		Recommendation:       "Выберите банки для сравнения",
	}
}
