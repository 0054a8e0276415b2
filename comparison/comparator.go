package comparison

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"bankcompare/schema"
)

// Options пороговые константы сравнения.
// Вынесены в конфигурацию, чтобы не зашивать магические числа.
type Options struct {
	// IdenticalRateEpsilon абсолютная разница ставок, ниже которой
	// они считаются практически идентичными
	IdenticalRateEpsilon float64 `json:"identical_rate_epsilon"`
	// DepositLagThreshold отставание ставки вклада, начиная с которого
	// фиксируется выигрыш конкурента
	DepositLagThreshold float64 `json:"deposit_lag_threshold"`
}

// DefaultOptions пороги по умолчанию
func DefaultOptions() Options {
	return Options{
		IdenticalRateEpsilon: 0.1,
		DepositLagThreshold:  0.5,
	}
}

// Row строка сравнительной таблицы
type Row struct {
	Attribute  string `json:"attribute"`
	Parameter  string `json:"parameter"`
	Reference  string `json:"reference"`
	Competitor string `json:"competitor"`
}

// Result результат сравнения двух продуктов.
// Пересчитывается на каждый запрос, нигде не кэшируется.
type Result struct {
	Table                []Row    `json:"comparison_table"`
	Insights             []string `json:"insights"`
	ReferenceAdvantages  []string `json:"reference_advantages"`
	CompetitorAdvantages []string `json:"competitor_advantages"`
	Recommendation       string   `json:"recommendation"`
}

// Comparator сравнивает канонические записи продуктов
type Comparator struct {
	opts   Options
	logger *slog.Logger
}

// New создает компаратор с заданными порогами
func New(opts Options) *Comparator {
	return &Comparator{
		opts:   opts,
		logger: slog.Default().With("component", "comparator"),
	}
}

// Compare сравнивает продукт опорного банка с продуктом конкурента.
// Таблица строится по набору полей опорной записи в порядке схемы,
// а не по объединению полей обеих сторон.
func (c *Comparator) Compare(reference, competitor schema.CanonicalRecord, productType schema.ProductType) *Result {
	productSchema := schema.For(productType)

	table := make([]Row, 0, len(reference))
	for _, field := range productSchema.FieldNames() {
		refValue, ok := reference[field]
		if !ok {
			continue
		}
		compValue, ok := competitor[field]
		if !ok {
			compValue = schema.Sentinel
		}
		table = append(table, Row{
			Attribute:  field,
			Parameter:  productSchema.DisplayName(field),
			Reference:  refValue,
			Competitor: compValue,
		})
	}

	refAdvantages := c.findAdvantages(reference, competitor, productType)
	compAdvantages := c.findAdvantages(competitor, reference, productType)

	return &Result{
		Table:                table,
		Insights:             c.generateInsights(reference, competitor, productType),
		ReferenceAdvantages:  refAdvantages,
		CompetitorAdvantages: compAdvantages,
		Recommendation:       c.recommendation(refAdvantages, compAdvantages, reference["bank"]),
	}
}

// generateInsights формирует ключевые выводы по ставкам.
// Пустой список - нормальная ситуация, когда ставки не сравнимы.
func (c *Comparator) generateInsights(reference, competitor schema.CanonicalRecord, productType schema.ProductType) []string {
	insights := []string{}

	refBank := bankLabel(reference, "Опорный банк")
	compBank := bankLabel(competitor, "Конкурент")

	switch productType {
	case schema.CreditCard:
		refRate, refOK := c.extractRate(reference["interest_rate"])
		compRate, compOK := c.extractRate(competitor["interest_rate"])
		if !refOK || !compOK {
			break
		}

		diff := compRate - refRate
		switch {
		case abs(diff) < c.opts.IdenticalRateEpsilon:
			insights = append(insights, "✓ Процентные ставки практически идентичны")
		case diff > 0:
			insights = append(insights, fmt.Sprintf("✓ %s выигрывает по ставке на %.1f%%", refBank, diff))
		default:
			insights = append(insights, fmt.Sprintf("⚠️ %s выигрывает по ставке на %.1f%%", compBank, -diff))
		}

	case schema.Deposit:
		refRate, refOK := c.extractRate(reference["interest_rate"])
		compRate, compOK := c.extractRate(competitor["interest_rate"])
		if !refOK || !compOK {
			break
		}

		diff := refRate - compRate
		if diff > 0 {
			insights = append(insights, fmt.Sprintf("✓ %s предлагает ставку выше на %.1f%%", refBank, diff))
		} else if diff < -c.opts.DepositLagThreshold {
			insights = append(insights, fmt.Sprintf("⚠️ %s выигрывает по ставке на %.1f%%", compBank, -diff))
		}
	}

	return insights
}

// Направленные правила: по каким атрибутам меньшее значение лучше.
// Для вкладов правило по ставке обратное.
var comparableAttributes = []string{"interest_rate", "annual_fee", "commission"}

// findAdvantages находит преимущества первой стороны над второй.
// Функция симметрична относительно сторон: роль (опорный/конкурент)
// задается только порядком аргументов.
func (c *Comparator) findAdvantages(first, second schema.CanonicalRecord, productType schema.ProductType) []string {
	advantages := []string{}

	for _, attr := range comparableAttributes {
		firstValue, ok := first[attr]
		if !ok || firstValue == schema.Sentinel {
			continue
		}
		secondValue := second[attr]
		if firstValue == secondValue {
			continue
		}

		firstNum, firstOK := c.extractRate(firstValue)
		secondNum, secondOK := c.extractRate(secondValue)
		if !firstOK || !secondOK {
			// Нечисловые значения исключаются из сравнения без ошибки
			continue
		}

		lowerWins := true
		if attr == "interest_rate" && productType == schema.Deposit {
			lowerWins = false
		}

		if (lowerWins && firstNum < secondNum) || (!lowerWins && firstNum > secondNum) {
			advantages = append(advantages, fmt.Sprintf("• %s: %s", attr, firstValue))
		}
	}

	if len(advantages) == 0 {
		return []string{"Данные не полны для детального анализа"}
	}
	return advantages
}

// recommendation выбирает рекомендацию простым сравнением числа преимуществ
func (c *Comparator) recommendation(refAdvantages, compAdvantages []string, refBank string) string {
	if refBank == "" {
		refBank = "Опорный банк"
	}
	switch {
	case len(refAdvantages) > len(compAdvantages):
		return fmt.Sprintf("%s имеет более конкурентное предложение", refBank)
	case len(compAdvantages) > len(refAdvantages):
		return "Конкурент имеет лучшие условия - рекомендуется пересмотреть"
	default:
		return "Условия примерно сопоставимы"
	}
}

// extractRate извлекает число из отформатированной ставки или суммы.
// У диапазона берется только первая граница.
func (c *Comparator) extractRate(value string) (float64, bool) {
	if value == "" || value == schema.Sentinel {
		return 0, false
	}

	cleaned := strings.NewReplacer("%", "", "₽", "", " ", "").Replace(value)
	if idx := strings.Index(cleaned, "-"); idx > 0 {
		cleaned = cleaned[:idx]
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		c.logger.Warn("Value is not parseable as a number, skipping", "value", value)
		return 0, false
	}
	return n, true
}

func bankLabel(record schema.CanonicalRecord, fallback string) string {
	if bank := record["bank"]; bank != "" {
		return bank
	}
	return fallback
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
