package normalization

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bankcompare/schema"
)

// Форматтеры приводят разнородные исходные значения к каноническим
// отображаемым строкам. Все функции тотальны: некорректный ввод
// деградирует до исходной строки или Sentinel, но никогда не паникует.

const (
	currencyMark = "₽"
	noneToken    = "Нет"
	yesToken     = "Да"
)

var numberPattern = regexp.MustCompile(`[\d,\.]+`)

// ExtractNumber извлекает первое число из текста.
// Запятая трактуется как десятичный разделитель.
func ExtractNumber(text string) (float64, bool) {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NormalizeRate приводит строку ставки к числу (обрабатывает символ %)
func NormalizeRate(rate string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(rate, "%", ""))
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatRate форматирует процентную ставку
func FormatRate(value any) string {
	if value == nil {
		return schema.Sentinel
	}
	if s, ok := value.(string); ok {
		if s == noneToken || s == schema.Sentinel {
			return schema.Sentinel
		}
		// Диапазон вида "9.8-25.9" не разбирается дальше
		if strings.Contains(s, "-") {
			return strings.ReplaceAll(s, " ", "")
		}
		if strings.Contains(strings.ToLower(s), "до") {
			return s
		}
	}
	rate, ok := NormalizeRate(stringify(value))
	if !ok {
		return stringify(value)
	}
	return formatFloat(rate) + "%"
}

// FormatAmount форматирует денежную сумму с разделителем тысяч
func FormatAmount(value any) string {
	if value == nil {
		return schema.Sentinel
	}
	if s, ok := value.(string); ok {
		if strings.Contains(s, currencyMark) || strings.Contains(strings.ToLower(s), "до") {
			return s
		}
		// Диапазон (дефис не в роли знака минус)
		if idx := strings.Index(s, "-"); idx > 0 {
			return strings.ReplaceAll(s, " ", "")
		}
	}
	n, ok := ExtractNumber(stringify(value))
	if !ok {
		return stringify(value)
	}
	return groupThousands(int64(n)) + currencyMark
}

// FormatFee форматирует стоимость обслуживания.
// Нулевая и "бесплатная" стоимость сводятся к единой канонической форме.
func FormatFee(value any) string {
	if value == nil {
		return "0" + currencyMark
	}
	switch v := value.(type) {
	case int:
		if v == 0 {
			return "0" + currencyMark
		}
		return strconv.Itoa(v) + currencyMark
	case int64:
		if v == 0 {
			return "0" + currencyMark
		}
		return strconv.FormatInt(v, 10) + currencyMark
	case float64:
		if v == 0 {
			return "0" + currencyMark
		}
		return formatFloat(v) + currencyMark
	case string:
		lower := strings.ToLower(v)
		if strings.Contains(lower, "бесплатно") || strings.Contains(lower, "free") {
			return "0" + currencyMark
		}
		if strings.Contains(v, currencyMark) {
			return v
		}
		return v
	}
	return stringify(value)
}

// FormatPeriod форматирует период в днях
func FormatPeriod(value any) string {
	if value == nil {
		return schema.Sentinel
	}
	s := stringify(value)
	if s == schema.Sentinel {
		return schema.Sentinel
	}
	if strings.Contains(strings.ToLower(s), "дн") {
		return s
	}
	n, ok := ExtractNumber(s)
	if !ok {
		return s
	}
	return fmt.Sprintf("%d дней", int64(n))
}

// FormatCashback форматирует процент кешбэка.
// Дробные значения в диапазоне 0-1 трактуются как доля.
func FormatCashback(value any) string {
	if value == nil {
		return schema.Sentinel
	}
	if s, ok := value.(string); ok {
		return s
	}
	if f, ok := value.(float64); ok && f >= 0 && f <= 1 {
		return fmt.Sprintf("до %.0f%%", f*100)
	}
	return stringify(value)
}

// FormatBool форматирует булево значение в Да/Нет
func FormatBool(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return yesToken
		}
		return noneToken
	case string:
		switch strings.ToLower(v) {
		case "true", "да", "yes", "включены":
			return yesToken
		case "false", "нет", "no":
			return noneToken
		}
	}
	return schema.Sentinel
}

// FormatIssue описывает значение, которое форматтер не может обработать
type FormatIssue struct {
	Attribute string
	Value     any
}

func (e *FormatIssue) Error() string {
	return fmt.Sprintf("unsupported value for attribute %q: %T", e.Attribute, e.Value)
}

// FormatValue применяет форматтер класса kind к значению.
// Структурные значения, не разобранные резолвером (вложенные объекты,
// списки), возвращаются как FormatIssue, а не протаскиваются в вывод.
func FormatValue(kind schema.Kind, attr string, value any) (string, error) {
	switch value.(type) {
	case map[string]any, schema.RawRecord, []any:
		return "", &FormatIssue{Attribute: attr, Value: value}
	}

	switch kind {
	case schema.KindRate:
		return FormatRate(value), nil
	case schema.KindAmount:
		return FormatAmount(value), nil
	case schema.KindFee:
		return FormatFee(value), nil
	case schema.KindPeriod:
		return FormatPeriod(value), nil
	case schema.KindCashback:
		return FormatCashback(value), nil
	case schema.KindBool:
		return FormatBool(value), nil
	default:
		if value == nil {
			return schema.Sentinel, nil
		}
		return stringify(value), nil
	}
}

// stringify приводит значение к строке без экспоненциальной записи чисел
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	default:
		return fmt.Sprintf("%v", value)
	}
}

// formatFloat печатает число без хвостовых нулей: 19.9 -> "19.9", 25.0 -> "25"
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// groupThousands форматирует целое число с пробелом-разделителем тысяч
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	result := strings.Join(parts, " ")
	if negative {
		result = "-" + result
	}
	return result
}
