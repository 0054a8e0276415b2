package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"bankcompare/schema"
)

// Generator создает синтетические записи продуктов для демо-данных и тестов
type Generator struct{}

// New создает генератор с заданным начальным значением.
// Нулевое значение дает воспроизводимый набор данных.
func New(seed uint64) *Generator {
	gofakeit.Seed(int64(seed))
	return &Generator{}
}

// Product генерирует правдоподобную исходную запись продукта.
// Названия полей соответствуют формату файлов отдельных банков.
func (g *Generator) Product(productType schema.ProductType) schema.RawRecord {
	switch productType {
	case schema.CreditCard:
		return g.creditCard()
	case schema.DebitCard:
		return g.debitCard()
	case schema.Deposit:
		return g.deposit()
	case schema.ConsumerLoan:
		return g.consumerLoan()
	default:
		return g.creditCard()
	}
}

func (g *Generator) creditCard() schema.RawRecord {
	record := schema.RawRecord{
		"название":     gofakeit.RandomString([]string{"Кредитная СберКарта", "Карта возможностей", "365 дней без процентов", "Платинум"}),
		"ставка":       fmt.Sprintf("%.1f-%.1f", gofakeit.Float64Range(9.8, 21.0), gofakeit.Float64Range(25.0, 49.8)),
		"грейс_период": map[string]any{"покупки": gofakeit.RandomInt([]int{30, 60, 120, 180}), "снятие_наличных": 0},
		"кешбек":       gofakeit.Float64Range(0.01, 0.3),
		"лимит":        float64(gofakeit.Number(100, 5000) * 1000),
		"дата":         currentDateLabel(),
	}

	// Часть банков обслуживает карту бесплатно
	if gofakeit.Bool() {
		record["стоимость"] = 0
	} else {
		record["стоимость"] = float64(gofakeit.RandomInt([]int{490, 590, 990, 1490}))
	}

	if gofakeit.Bool() {
		record["минимальный_платеж"] = fmt.Sprintf("%d%% от задолженности", gofakeit.RandomInt([]int{3, 5, 8}))
	}

	return record
}

func (g *Generator) debitCard() schema.RawRecord {
	return schema.RawRecord{
		"название":  gofakeit.RandomString([]string{"СберКарта", "Альфа-Карта", "Tinkoff Black", "Мультикарта"}),
		"стоимость": gofakeit.RandomString([]string{"Бесплатно", "0-990/год", "150/мес"}),
		"процент":   gofakeit.Float64Range(0, 8),
		"кешбек":    gofakeit.Float64Range(0.01, 0.1),
		"смс":       gofakeit.Bool(),
		"снятие_наличных": map[string]any{
			"в_банке_до_1млн": "Бесплатно",
			"другие_банки":    fmt.Sprintf("%d%%", gofakeit.RandomInt([]int{1, 2})),
		},
		"переводы": map[string]any{
			"сбп_до_100к":   "Бесплатно",
			"по_реквизитам": fmt.Sprintf("%.1f%%", gofakeit.Float64Range(0.5, 1.5)),
		},
		"программа_лояльности": gofakeit.RandomString([]string{"СберСпасибо", "Мили", "Кэшбэк рублями"}),
		"возраст":              "от 14 лет",
		"дата":                 currentDateLabel(),
	}
}

func (g *Generator) deposit() schema.RawRecord {
	return schema.RawRecord{
		"название":           gofakeit.RandomString([]string{"Лучший процент", "Накопительный", "СберВклад", "Доходный"}),
		"ставка":             gofakeit.Float64Range(12, 21),
		"срок":               fmt.Sprintf("%d мес", gofakeit.RandomInt([]int{3, 6, 12, 24, 36})),
		"минимальная_сумма":  float64(gofakeit.RandomInt([]int{1000, 10000, 50000, 100000})),
		"максимальная_сумма": "до 30 000 000₽",
		"пополнение":         gofakeit.Bool(),
		"досрочное_снятие":   gofakeit.Bool(),
		"страхование":        true,
		"дата":               currentDateLabel(),
	}
}

func (g *Generator) consumerLoan() schema.RawRecord {
	return schema.RawRecord{
		"название":        gofakeit.RandomString([]string{"Кредит наличными", "На любые цели", "Рефинансирование"}),
		"ставка":          fmt.Sprintf("%.1f-%.1f", gofakeit.Float64Range(14.9, 19.9), gofakeit.Float64Range(25.0, 39.9)),
		"сумма":           float64(gofakeit.Number(30, 7000) * 1000),
		"срок":            fmt.Sprintf("до %d мес", gofakeit.RandomInt([]int{36, 60, 84})),
		"комиссия":        0,
		"время_одобрения": gofakeit.RandomString([]string{"2 минуты", "1 час", "1 день"}),
		"дата":            currentDateLabel(),
	}
}

// WriteDataDir записывает демо-набор данных: по файлу на каждый банк
// и тип продукта в структуре, которую читает source.Loader
func (g *Generator) WriteDataDir(dataDir string, banks []string) error {
	for _, productType := range schema.AllProductTypes() {
		dir := filepath.Join(dataDir, string(productType))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		for _, bank := range banks {
			record := g.Product(productType)
			payload, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal record for %s: %w", bank, err)
			}

			path := filepath.Join(dir, bank+".json")
			if err := os.WriteFile(path, payload, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
	}
	return nil
}

// Месяцы в родительном падеже для поля даты вида "ноябрь 2025"
var monthNames = []string{
	"январь", "февраль", "март", "апрель", "май", "июнь",
	"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
}

func currentDateLabel() string {
	now := time.Now()
	return fmt.Sprintf("%s %d", monthNames[now.Month()-1], now.Year())
}
