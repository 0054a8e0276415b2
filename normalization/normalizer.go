package normalization

import (
	"log/slog"

	"bankcompare/schema"
)

// Normalizer приводит исходные записи продуктов к фиксированной схеме
type Normalizer struct {
	logger *slog.Logger
}

// New создает новый нормализатор
func New() *Normalizer {
	return &Normalizer{
		logger: slog.Default().With("component", "normalizer"),
	}
}

// Normalize нормализует исходную запись продукта к канонической схеме.
// Выходная запись всегда содержит ровно объявленный набор полей схемы
// плюс bank; отсутствующие в источнике данные заполняются Sentinel.
// Сбой на одном атрибуте не прерывает нормализацию остальных.
func (n *Normalizer) Normalize(raw schema.RawRecord, bank string, productType schema.ProductType) schema.CanonicalRecord {
	productSchema := schema.For(productType)

	record := make(schema.CanonicalRecord, len(productSchema.Attributes)+1)
	record["bank"] = bank

	for _, attr := range productSchema.Attributes {
		record[attr.Name] = n.normalizeAttribute(raw, attr, bank)
	}

	return record
}

// NormalizeAll нормализует набор записей нескольких банков
func (n *Normalizer) NormalizeAll(raw map[string]schema.RawRecord, productType schema.ProductType) map[string]schema.CanonicalRecord {
	result := make(map[string]schema.CanonicalRecord, len(raw))
	for bank, record := range raw {
		result[bank] = n.Normalize(record, bank, productType)
	}
	return result
}

func (n *Normalizer) normalizeAttribute(raw schema.RawRecord, attr schema.Attribute, bank string) string {
	value, found := schema.Resolve(raw, attr.Name)
	if !found {
		return schema.Sentinel
	}

	formatted, err := FormatValue(attr.Kind, attr.Name, value)
	if err != nil {
		n.logger.Warn("Failed to format attribute, using sentinel",
			"bank", bank,
			"attribute", attr.Name,
			"error", err,
		)
		return schema.Sentinel
	}
	return formatted
}
