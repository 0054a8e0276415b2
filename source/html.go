package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bankcompare/schema"
)

// SelectorSet CSS-селекторы полей продукта на странице банка.
// Ключ - исходное название поля, значение - селектор.
type SelectorSet map[string]string

// Селекторы для сохраненных снимков страниц известных банков.
// Применяются только к локальным HTML-файлам.
var snapshotSelectors = map[string]SelectorSet{
	"vtb": {
		"ставка":       "span.rate-value",
		"грейс_период": "span.grace-days",
		"кешбек":       "span.cashback-percent",
		"стоимость":    "span.annual-fee-value",
	},
	"alphabank": {
		"ставка":       "[data-testid='interest-rate']",
		"грейс_период": "[data-testid='grace-period']",
		"кешбек":       "[data-testid='cashback']",
		"стоимость":    "[data-testid='annual-fee']",
	},
	"gazprombank": {
		"ставка":       ".product-rate",
		"грейс_период": ".grace-period-value",
		"кешбек":       ".cashback-info",
		"стоимость":    ".fee-value",
	},
}

// SelectorsFor возвращает селекторы снимка страницы банка
func SelectorsFor(bank string) (SelectorSet, bool) {
	sel, ok := snapshotSelectors[strings.ToLower(bank)]
	return sel, ok
}

// ParseSnapshot извлекает исходную запись продукта из HTML-снимка страницы.
// Поля, не найденные по селекторам, в запись не попадают -
// их отсутствие обработает нормализатор.
func ParseSnapshot(r io.Reader, selectors SelectorSet) (schema.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML snapshot: %w", err)
	}

	record := schema.RawRecord{}
	for field, selector := range selectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text == "" {
			continue
		}
		record[field] = text
	}

	return record, nil
}

// LoadSnapshot читает снимок страницы банка из
// {dataDir}/snapshots/{productType}/{bank}.html и разбирает его
func (l *Loader) LoadSnapshot(bank string, productType schema.ProductType) (schema.RawRecord, error) {
	selectors, ok := SelectorsFor(bank)
	if !ok {
		return nil, fmt.Errorf("no selectors configured for bank %q", bank)
	}

	path := filepath.Join(l.dataDir, "snapshots", string(productType), bank+".html")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer file.Close()

	record, err := ParseSnapshot(file, selectors)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Parsed snapshot", "bank", bank, "product_type", productType, "fields", len(record))
	return record, nil
}
