package quality

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"bankcompare/schema"
)

// Policy настройки валидации.
// Влияние проверки свежести на итоговую валидность в исходных данных
// неоднозначно, поэтому вынесено в явный флаг.
type Policy struct {
	// FreshnessGatesValidity если true, предупреждения о свежести данных
	// делают запись невалидной. По умолчанию они только информируют.
	FreshnessGatesValidity bool `json:"freshness_gates_validity"`
}

// Validator проверяет записи продуктов на соответствие схеме
type Validator struct {
	policy Policy
	logger *slog.Logger
	now    func() time.Time
}

// New создает валидатор с заданной политикой
func New(policy Policy) *Validator {
	return &Validator{
		policy: policy,
		logger: slog.Default().With("component", "validator"),
		now:    time.Now,
	}
}

// ValidateProduct проверяет исходную запись продукта на соответствие схеме.
// Возвращает флаг валидности и список найденных проблем.
// Валидатор никогда не возвращает ошибку как error: все проблемы - данные.
func (v *Validator) ValidateProduct(data schema.RawRecord, productType schema.ProductType, bank string) (bool, []string) {
	issues := []string{}

	if !productType.IsValid() {
		issues = append(issues, fmt.Sprintf("⚠️ Неизвестный тип продукта: %s", productType))
		return false, issues
	}

	productSchema := schema.For(productType)

	hardIssues := 0
	for _, attr := range productSchema.Attributes {
		if v.fieldExists(data, attr.Name) {
			continue
		}
		aliases := schema.Aliases(attr.Name)
		examples := aliases
		if len(examples) > 3 {
			examples = examples[:3]
		}
		issues = append(issues, fmt.Sprintf(
			"❌ Отсутствует обязательное поле '%s' для %s. Ожидается одно из: %s",
			attr.Name, bank, strings.Join(examples, ", ")))
		hardIssues++
	}

	formatIssues := v.validateFieldFormats(data)
	issues = append(issues, formatIssues...)
	hardIssues += len(formatIssues)

	freshnessIssues := 0
	if issue := v.checkFreshness(data); issue != "" {
		issues = append(issues, issue)
		freshnessIssues++
	}

	isValid := hardIssues == 0
	if v.policy.FreshnessGatesValidity {
		isValid = isValid && freshnessIssues == 0
	}

	if !isValid {
		v.logger.Warn("Validation failed",
			"bank", bank,
			"product_type", productType,
			"issues", len(issues),
		)
	}

	return isValid, issues
}

// CompletenessScore возвращает долю обязательных атрибутов схемы,
// значение которых присутствует и не является заглушкой. Диапазон 0.0-1.0.
func (v *Validator) CompletenessScore(data schema.RawRecord, productType schema.ProductType) float64 {
	productSchema := schema.For(productType)
	if len(productSchema.Attributes) == 0 {
		return 1.0
	}

	present := 0
	for _, attr := range productSchema.Attributes {
		value, found := schema.Resolve(data, attr.Name)
		if !found {
			continue
		}
		if isMeaningful(value) {
			present++
		}
	}

	return float64(present) / float64(len(productSchema.Attributes))
}

// ValidateComparison проверяет структуру многобанкового файла сравнения:
// у всех банков должен быть согласованный набор полей.
func (v *Validator) ValidateComparison(banks map[string]schema.RawRecord, productType schema.ProductType) (bool, []string) {
	issues := []string{}

	if len(banks) == 0 {
		issues = append(issues, "❌ В файле сравнения нет секции с банками")
		return false, issues
	}

	allFields := map[string]bool{}
	for _, data := range banks {
		for field := range data {
			allFields[field] = true
		}
	}

	for bank, data := range banks {
		missing := []string{}
		for field := range allFields {
			if _, ok := data[field]; !ok {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			if len(missing) > 5 {
				missing = missing[:5]
			}
			issues = append(issues, fmt.Sprintf("⚠️ У банка %s отсутствуют поля: %s", bank, strings.Join(missing, ", ")))
		}
	}

	for bank, data := range banks {
		_, bankIssues := v.ValidateProduct(data, productType, bank)
		for _, issue := range bankIssues {
			issues = append(issues, fmt.Sprintf("%s: %s", bank, issue))
		}
	}

	return len(issues) == 0, issues
}

// fieldExists проверяет наличие поля в записи по всем известным алиасам
func (v *Validator) fieldExists(data schema.RawRecord, attr string) bool {
	for _, name := range schema.Aliases(attr) {
		if _, ok := data[name]; ok {
			return true
		}
	}
	return false
}

// Поля, для которых выполняется выборочная проверка формата
var (
	rateFields   = []string{"ставка", "процент"}
	amountFields = []string{"лимит", "кредитный_лимит", "сумма"}
)

// validateFieldFormats выполняет мягкие проверки формата полей со ставками
// и суммами: до нормализации допускаются число, процент, диапазон и "до X"
func (v *Validator) validateFieldFormats(data schema.RawRecord) []string {
	issues := []string{}

	for _, field := range rateFields {
		value, ok := data[field]
		if !ok || value == nil {
			continue
		}
		if s, isStr := value.(string); isStr {
			if s == "" || s == "Нет" || s == schema.Sentinel {
				continue
			}
			if !isValidRateString(s) {
				issues = append(issues, fmt.Sprintf("⚠️ Некорректный формат ставки: '%s'", s))
			}
		}
	}

	for _, field := range amountFields {
		value, ok := data[field]
		if !ok || value == nil {
			continue
		}
		if !isValidAmountString(fmt.Sprintf("%v", value)) {
			issues = append(issues, fmt.Sprintf("⚠️ Некорректный формат суммы: '%v'", value))
		}
	}

	return issues
}

// checkFreshness проверяет актуальность данных по полю даты.
// Отсутствие даты - предупреждение, а не жесткая ошибка.
func (v *Validator) checkFreshness(data schema.RawRecord) string {
	dateValue, ok := data["дата"]
	if !ok || dateValue == nil {
		return "⚠️ В данных нет поля с датой"
	}

	currentYear := strconv.Itoa(v.now().Year())
	if !strings.Contains(fmt.Sprintf("%v", dateValue), currentYear) {
		return fmt.Sprintf("⚠️ Данные могут быть устаревшими: %v", dateValue)
	}
	return ""
}

// isValidRateString проверяет, что строка похожа на ставку:
// число, процент, диапазон или форма "до X"
func isValidRateString(rate string) bool {
	cleaned := strings.NewReplacer("%", "", " ", "", "₽", "").Replace(rate)

	if strings.Contains(cleaned, "-") {
		parts := strings.Split(cleaned, "-")
		for _, p := range parts {
			if !isNumber(p) {
				return false
			}
		}
		return true
	}

	if strings.HasPrefix(strings.ToLower(cleaned), "до") {
		return isNumber(strings.TrimPrefix(strings.ToLower(cleaned), "до"))
	}

	return isNumber(cleaned)
}

// isValidAmountString проверяет, что строка похожа на денежную сумму
func isValidAmountString(amount string) bool {
	if strings.Contains(amount, "Бесплатно") || strings.Contains(amount, schema.Sentinel) {
		return true
	}

	cleaned := strings.NewReplacer("₽", "", " ", "", ",", "").Replace(amount)
	if strings.Contains(strings.ToLower(cleaned), "до") {
		return true
	}

	return isNumber(cleaned) || strings.Contains(cleaned, "-")
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return err == nil
}

// isMeaningful проверяет, что значение несет данные, а не заглушку
func isMeaningful(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		switch v {
		case "", schema.Sentinel, "N/A", "None":
			return false
		}
		return true
	default:
		return true
	}
}
