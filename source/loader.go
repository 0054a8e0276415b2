package source

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bankcompare/schema"
)

// Loader читает локально сохраненные данные о продуктах банков.
// Сетевых запросов слой не делает: источником служат файлы в каталоге данных.
type Loader struct {
	dataDir string
	logger  *slog.Logger
}

// NewLoader создает загрузчик данных из каталога
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir: dataDir,
		logger:  slog.Default().With("component", "source_loader"),
	}
}

// LoadProduct читает исходную запись продукта банка из файла
// {dataDir}/{productType}/{bank}.json
func (l *Loader) LoadProduct(bank string, productType schema.ProductType) (schema.RawRecord, error) {
	path := filepath.Join(l.dataDir, string(productType), bank+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read product file %s: %w", path, err)
	}

	var record schema.RawRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	l.logger.Debug("Loaded product file", "bank", bank, "product_type", productType, "fields", len(record))
	return record, nil
}

// comparisonFile структура многобанкового файла сравнения
type comparisonFile struct {
	Banks map[string]schema.RawRecord `json:"банки"`
	Date  string                      `json:"дата"`
}

// LoadComparison читает многобанковый файл сравнения
// {dataDir}/{productType}/comparison.json и возвращает записи по банкам
func (l *Loader) LoadComparison(productType schema.ProductType) (map[string]schema.RawRecord, error) {
	path := filepath.Join(l.dataDir, string(productType), "comparison.json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read comparison file %s: %w", path, err)
	}

	var file comparisonFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	if len(file.Banks) == 0 {
		return nil, fmt.Errorf("comparison file %s has no banks section", path)
	}

	// Дата из шапки файла пробрасывается в записи банков
	// для последующей проверки свежести
	if file.Date != "" {
		for _, record := range file.Banks {
			if _, ok := record["дата"]; !ok {
				record["дата"] = file.Date
			}
		}
	}

	return file.Banks, nil
}

// ListBanks возвращает банки, для которых есть файлы данного типа продукта
func (l *Loader) ListBanks(productType schema.ProductType) ([]string, error) {
	dir := filepath.Join(l.dataDir, string(productType))

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	banks := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		bank := strings.TrimSuffix(name, ".json")
		if bank == "comparison" {
			continue
		}
		banks = append(banks, bank)
	}
	sort.Strings(banks)

	return banks, nil
}
