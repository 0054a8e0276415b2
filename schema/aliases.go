package schema

// Таблица алиасов собрана из двух форматов исходных данных:
// файлы отдельных банков используют одни названия полей,
// файлы многобанковых сравнений - другие.
// Порядок в списке задает приоритет: прямой алиас идет первым.

var fieldAliases = map[string][]string{
	"product_name":           {"название", "карта", "название_продукта"},
	"interest_rate":          {"ставка", "процент", "процентная_ставка", "процент_на_остаток"},
	"annual_fee":             {"стоимость", "стоимость_обслуживания", "годовое_обслуживание"},
	"max_limit":              {"лимит", "кредитный_лимит", "максимальный_лимит"},
	"grace_period":           {"грейс_период", "льготный_период"},
	"cashback":               {"кешбек", "кэшбэк"},
	"min_payment":            {"минимальный_платеж"},
	"min_salary_requirement": {"минимальная_зарплата"},
	"commission":             {"комиссия"},
	"term_months":            {"срок"},
	"min_amount":             {"минимальная_сумма"},
	"max_amount":             {"максимальная_сумма", "сумма", "лимит"},
	"replenishment":          {"пополнение"},
	"early_withdrawal":       {"досрочное_снятие"},
	"insurance":              {"страхование"},
	"approval_time":          {"время_одобрения"},
	"min_score":              {"минимальный_скоринг"},
	"sms_notifications":      {"смс", "смс_уведомления"},
	"cash_withdrawal":        {"снятие_наличных", "снятие_наличных_чужие_банки"},
	"transfers":              {"переводы", "переводы_по_реквизитам"},
	"loyalty_program":        {"программа_лояльности"},
	"age_requirement":        {"возраст"},
	"bonuses":                {"бонусы"},
}

// nestedKeys для атрибутов, значение которых в источнике может быть
// вложенной структурой: какой внутренний ключ брать.
// Пример: "грейс_период": {"покупки": "120 дней", "снятие_наличных": "30 дней"}
var nestedKeys = map[string]string{
	"grace_period":    "покупки",
	"cash_withdrawal": "другие_банки",
	"transfers":       "по_реквизитам",
}

// Aliases возвращает все известные исходные названия поля в порядке приоритета
func Aliases(attr string) []string {
	return fieldAliases[attr]
}

// NestedKey возвращает внутренний ключ для атрибутов с вложенной структурой
func NestedKey(attr string) (string, bool) {
	key, ok := nestedKeys[attr]
	return key, ok
}

// Resolve ищет значение нормализованного атрибута в исходной записи,
// перебирая все известные алиасы по приоритету.
// Значимые "ложные" значения (0, false) считаются найденными; nil - нет.
// Если атрибут имеет вложенный обработчик и найденное значение является
// структурой, извлекается настроенный внутренний ключ
// (при его отсутствии возвращается Sentinel).
func Resolve(record RawRecord, attr string) (any, bool) {
	for _, name := range Aliases(attr) {
		value, ok := record[name]
		if !ok || value == nil {
			continue
		}

		if nested, isMap := asMap(value); isMap {
			inner, hasHandler := NestedKey(attr)
			if !hasHandler {
				// Структура без обработчика: отдаем как есть,
				// форматтер решит что с ней делать
				return value, true
			}
			innerValue, found := nested[inner]
			if !found || innerValue == nil {
				return Sentinel, true
			}
			return innerValue, true
		}

		return value, true
	}
	return nil, false
}

// asMap приводит значение к map[string]any, учитывая что записи
// могут приходить как из JSON-декодера, так и собранными вручную
func asMap(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case RawRecord:
		return m, true
	}
	return nil, false
}
