package schema

// Sentinel значение-заглушка для отсутствующих данных.
// Оно должно без изменений проходить через повторную нормализацию.
const Sentinel = "Н/Д"

// RawRecord исходная запись продукта: поля в формате источника
// (названия на русском, значения любых типов, включая вложенные структуры)
type RawRecord map[string]any

// CanonicalRecord нормализованная запись продукта:
// фиксированный набор полей схемы, все значения отформатированы в строки
type CanonicalRecord map[string]string

// ProductType тип банковского продукта
type ProductType string

const (
	CreditCard   ProductType = "credit_card"
	DebitCard    ProductType = "debit_card"
	Deposit      ProductType = "deposit"
	ConsumerLoan ProductType = "consumer_loan"
)

// AllProductTypes возвращает все поддерживаемые типы продуктов
func AllProductTypes() []ProductType {
	return []ProductType{CreditCard, DebitCard, Deposit, ConsumerLoan}
}

// IsValid проверяет, что тип продукта поддерживается
func (pt ProductType) IsValid() bool {
	switch pt {
	case CreditCard, DebitCard, Deposit, ConsumerLoan:
		return true
	}
	return false
}

// Kind семантический класс атрибута, определяющий форматтер
type Kind int

const (
	KindText Kind = iota
	KindRate
	KindAmount
	KindFee
	KindPeriod
	KindCashback
	KindBool
)

// Attribute атрибут схемы продукта с привязанным классом форматирования
type Attribute struct {
	Name string
	Kind Kind
}

// ProductSchema фиксированная схема сравнения для типа продукта.
// Поле bank не входит в Attributes: оно добавляется нормализатором.
type ProductSchema struct {
	Type         ProductType
	Attributes   []Attribute
	DisplayNames map[string]string
}

var creditCardSchema = ProductSchema{
	Type: CreditCard,
	Attributes: []Attribute{
		{Name: "product_name", Kind: KindText},
		{Name: "interest_rate", Kind: KindRate},
		{Name: "grace_period", Kind: KindPeriod},
		{Name: "cashback", Kind: KindCashback},
		{Name: "annual_fee", Kind: KindFee},
		{Name: "max_limit", Kind: KindAmount},
		{Name: "min_payment", Kind: KindText},
		{Name: "min_salary_requirement", Kind: KindText},
		{Name: "commission", Kind: KindFee},
	},
	DisplayNames: map[string]string{
		"bank":                   "Банк",
		"product_name":           "Название продукта",
		"interest_rate":          "Процентная ставка",
		"grace_period":           "Льготный период",
		"cashback":               "Кешбэк",
		"annual_fee":             "Годовое обслуживание",
		"max_limit":              "Макс. лимит",
		"min_payment":            "Минимальный платеж",
		"min_salary_requirement": "Мин. зарплата",
		"commission":             "Комиссия",
	},
}

var debitCardSchema = ProductSchema{
	Type: DebitCard,
	Attributes: []Attribute{
		{Name: "product_name", Kind: KindText},
		{Name: "annual_fee", Kind: KindFee},
		{Name: "interest_rate", Kind: KindRate},
		{Name: "cashback", Kind: KindCashback},
		{Name: "sms_notifications", Kind: KindBool},
		{Name: "cash_withdrawal", Kind: KindText},
		{Name: "transfers", Kind: KindText},
		{Name: "loyalty_program", Kind: KindText},
		{Name: "age_requirement", Kind: KindText},
		{Name: "bonuses", Kind: KindText},
	},
	DisplayNames: map[string]string{
		"bank":              "Банк",
		"product_name":      "Название продукта",
		"annual_fee":        "Стоимость обслуживания",
		"interest_rate":     "Процент на остаток",
		"cashback":          "Кешбэк",
		"sms_notifications": "СМС-уведомления",
		"cash_withdrawal":   "Снятие наличных",
		"transfers":         "Переводы",
		"loyalty_program":   "Программа лояльности",
		"age_requirement":   "Возраст",
		"bonuses":           "Бонусы",
	},
}

var depositSchema = ProductSchema{
	Type: Deposit,
	Attributes: []Attribute{
		{Name: "product_name", Kind: KindText},
		{Name: "interest_rate", Kind: KindRate},
		{Name: "term_months", Kind: KindText},
		{Name: "min_amount", Kind: KindAmount},
		{Name: "max_amount", Kind: KindAmount},
		{Name: "replenishment", Kind: KindBool},
		{Name: "early_withdrawal", Kind: KindBool},
		{Name: "insurance", Kind: KindBool},
	},
	DisplayNames: map[string]string{
		"bank":             "Банк",
		"product_name":     "Название продукта",
		"interest_rate":    "Процентная ставка",
		"term_months":      "Срок (месяцы)",
		"min_amount":       "Мин. сумма",
		"max_amount":       "Макс. сумма",
		"replenishment":    "Пополнение",
		"early_withdrawal": "Досрочное снятие",
		"insurance":        "Страхование",
	},
}

var consumerLoanSchema = ProductSchema{
	Type: ConsumerLoan,
	Attributes: []Attribute{
		{Name: "product_name", Kind: KindText},
		{Name: "interest_rate", Kind: KindRate},
		{Name: "max_amount", Kind: KindAmount},
		{Name: "term_months", Kind: KindText},
		{Name: "commission", Kind: KindFee},
		{Name: "approval_time", Kind: KindText},
		{Name: "min_score", Kind: KindText},
	},
	DisplayNames: map[string]string{
		"bank":          "Банк",
		"product_name":  "Название продукта",
		"interest_rate": "Процентная ставка",
		"max_amount":    "Макс. сумма",
		"term_months":   "Срок (месяцы)",
		"commission":    "Комиссия",
		"approval_time": "Время одобрения",
		"min_score":     "Мин. score",
	},
}

// For возвращает схему для типа продукта.
// Неизвестный тип возвращает схему кредитной карты,
// чтобы вызывающий код всегда получал рабочую схему.
func For(pt ProductType) ProductSchema {
	switch pt {
	case CreditCard:
		return creditCardSchema
	case DebitCard:
		return debitCardSchema
	case Deposit:
		return depositSchema
	case ConsumerLoan:
		return consumerLoanSchema
	default:
		return creditCardSchema
	}
}

// FieldNames возвращает упорядоченный список полей схемы, включая bank
func (s ProductSchema) FieldNames() []string {
	names := make([]string, 0, len(s.Attributes)+1)
	names = append(names, "bank")
	for _, a := range s.Attributes {
		names = append(names, a.Name)
	}
	return names
}

// KindOf возвращает класс форматирования атрибута схемы
func (s ProductSchema) KindOf(attr string) (Kind, bool) {
	for _, a := range s.Attributes {
		if a.Name == attr {
			return a.Kind, true
		}
	}
	return KindText, false
}

// DisplayName возвращает отображаемое имя поля или само имя, если его нет в схеме
func (s ProductSchema) DisplayName(field string) string {
	if name, ok := s.DisplayNames[field]; ok {
		return name
	}
	return field
}
