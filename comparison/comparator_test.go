package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankcompare/schema"
)

func TestCompareCreditCards(t *testing.T) {
	comparator := New(DefaultOptions())

	reference := schema.CanonicalRecord{
		"bank":          "sber",
		"product_name":  "СберКарта",
		"interest_rate": "19.9%",
		"annual_fee":    "0₽",
	}
	competitor := schema.CanonicalRecord{
		"bank":          "vtb",
		"product_name":  "Карта возможностей",
		"interest_rate": "17.9%",
		"annual_fee":    "990₽",
	}

	result := comparator.Compare(reference, competitor, schema.CreditCard)
	require.NotNil(t, result)

	assert.Contains(t, result.Insights, "⚠️ vtb выигрывает по ставке на 2.0%")
	assert.Equal(t, []string{"• annual_fee: 0₽"}, result.ReferenceAdvantages)
	assert.Equal(t, []string{"• interest_rate: 17.9%"}, result.CompetitorAdvantages)
	assert.Equal(t, "Условия примерно сопоставимы", result.Recommendation)
}

func TestCompareTableAnchoredOnReference(t *testing.T) {
	comparator := New(DefaultOptions())

	reference := schema.CanonicalRecord{
		"bank":          "sber",
		"product_name":  "СберКарта",
		"interest_rate": "19.9%",
	}
	competitor := schema.CanonicalRecord{
		"bank":        "vtb",
		"extra_field": "не из схемы",
	}

	result := comparator.Compare(reference, competitor, schema.CreditCard)

	// Таблица строится по полям опорной записи в порядке схемы
	require.Len(t, result.Table, 3)
	assert.Equal(t, "bank", result.Table[0].Attribute)
	assert.Equal(t, "product_name", result.Table[1].Attribute)
	assert.Equal(t, "interest_rate", result.Table[2].Attribute)

	assert.Equal(t, "Процентная ставка", result.Table[2].Parameter)
	assert.Equal(t, "19.9%", result.Table[2].Reference)
	assert.Equal(t, schema.Sentinel, result.Table[2].Competitor)

	for _, row := range result.Table {
		assert.NotEqual(t, "extra_field", row.Attribute)
	}
}

func TestCompareIdenticalRates(t *testing.T) {
	comparator := New(DefaultOptions())

	reference := schema.CanonicalRecord{"bank": "sber", "interest_rate": "19.9%"}
	competitor := schema.CanonicalRecord{"bank": "vtb", "interest_rate": "19.95%"}

	result := comparator.Compare(reference, competitor, schema.CreditCard)

	assert.Contains(t, result.Insights, "✓ Процентные ставки практически идентичны")
}

func TestCompareRangeRateUsesLowerBound(t *testing.T) {
	comparator := New(DefaultOptions())

	reference := schema.CanonicalRecord{"bank": "sber", "interest_rate": "9.8-25.9"}
	competitor := schema.CanonicalRecord{"bank": "vtb", "interest_rate": "11.8%"}

	result := comparator.Compare(reference, competitor, schema.CreditCard)

	assert.Contains(t, result.Insights, "✓ sber выигрывает по ставке на 2.0%")
	assert.Contains(t, result.ReferenceAdvantages, "• interest_rate: 9.8-25.9")
}

func TestCompareDepositHigherRateWins(t *testing.T) {
	comparator := New(DefaultOptions())

	reference := schema.CanonicalRecord{"bank": "sber", "interest_rate": "18%"}
	competitor := schema.CanonicalRecord{"bank": "vtb", "interest_rate": "16%"}

	result := comparator.Compare(reference, competitor, schema.Deposit)

	assert.Contains(t, result.Insights, "✓ sber предлагает ставку выше на 2.0%")
	assert.Contains(t, result.ReferenceAdvantages, "• interest_rate: 18%")
}

func TestCompareRecommendationReferenceWins(t *testing.T) {
	comparator := New(DefaultOptions())

	reference := schema.CanonicalRecord{
		"bank":          "sber",
		"interest_rate": "17.9%",
		"annual_fee":    "0₽",
		"commission":    "500₽",
	}
	competitor := schema.CanonicalRecord{
		"bank":          "vtb",
		"interest_rate": "25.9%",
		"annual_fee":    "990₽",
		"commission":    "500₽",
	}

	result := comparator.Compare(reference, competitor, schema.CreditCard)

	assert.Equal(t, "sber имеет более конкурентное предложение", result.Recommendation)
	assert.Len(t, result.ReferenceAdvantages, 2)
}

func TestCompareDepositLagThreshold(t *testing.T) {
	comparator := New(DefaultOptions())

	tests := []struct {
		name        string
		refRate     string
		compRate    string
		wantInsight string
	}{
		{
			name:        "отставание выше порога",
			refRate:     "16%",
			compRate:    "18%",
			wantInsight: "⚠️ vtb выигрывает по ставке на 2.0%",
		},
		{
			name:        "отставание в пределах порога не отмечается",
			refRate:     "17.8%",
			compRate:    "18%",
			wantInsight: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reference := schema.CanonicalRecord{"bank": "sber", "interest_rate": tt.refRate}
			competitor := schema.CanonicalRecord{"bank": "vtb", "interest_rate": tt.compRate}

			result := comparator.Compare(reference, competitor, schema.Deposit)

			if tt.wantInsight == "" {
				assert.Empty(t, result.Insights)
			} else {
				assert.Contains(t, result.Insights, tt.wantInsight)
			}
		})
	}
}

func TestCompareAdvantagesSymmetric(t *testing.T) {
	comparator := New(DefaultOptions())

	first := schema.CanonicalRecord{"bank": "sber", "interest_rate": "19.9%", "annual_fee": "0₽"}
	second := schema.CanonicalRecord{"bank": "vtb", "interest_rate": "17.9%", "annual_fee": "990₽"}

	direct := comparator.Compare(first, second, schema.CreditCard)
	reversed := comparator.Compare(second, first, schema.CreditCard)

	assert.Equal(t, direct.ReferenceAdvantages, reversed.CompetitorAdvantages)
	assert.Equal(t, direct.CompetitorAdvantages, reversed.ReferenceAdvantages)
}

func TestCompareUnparseableValuesSkipped(t *testing.T) {
	comparator := New(DefaultOptions())

	reference := schema.CanonicalRecord{"bank": "sber", "commission": "индивидуально"}
	competitor := schema.CanonicalRecord{"bank": "vtb", "commission": "0₽"}

	result := comparator.Compare(reference, competitor, schema.CreditCard)

	// Нечисловое значение исключается без ошибки, преимуществ нет
	assert.Equal(t, []string{"Данные не полны для детального анализа"}, result.ReferenceAdvantages)
	assert.Equal(t, []string{"Данные не полны для детального анализа"}, result.CompetitorAdvantages)
	assert.Empty(t, result.Insights)
}

func TestCompareSentinelExcluded(t *testing.T) {
	comparator := New(DefaultOptions())

	reference := schema.CanonicalRecord{"bank": "sber", "interest_rate": schema.Sentinel}
	competitor := schema.CanonicalRecord{"bank": "vtb", "interest_rate": "17.9%"}

	result := comparator.Compare(reference, competitor, schema.CreditCard)

	assert.Empty(t, result.Insights)
	assert.Equal(t, []string{"Данные не полны для детального анализа"}, result.ReferenceAdvantages)
}

func TestCompareRecommendationCompetitorWins(t *testing.T) {
	comparator := New(DefaultOptions())

	reference := schema.CanonicalRecord{
		"bank":          "sber",
		"interest_rate": "25.9%",
		"annual_fee":    "990₽",
		"commission":    "500₽",
	}
	competitor := schema.CanonicalRecord{
		"bank":          "vtb",
		"interest_rate": "17.9%",
		"annual_fee":    "0₽",
		"commission":    "500₽",
	}

	result := comparator.Compare(reference, competitor, schema.CreditCard)

	assert.Equal(t, "Конкурент имеет лучшие условия - рекомендуется пересмотреть", result.Recommendation)
	assert.Len(t, result.CompetitorAdvantages, 2)
}
