package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"bankcompare/comparison"
)

// ExportFormat формат экспорта отчета
type ExportFormat string

const (
	FormatJSON  ExportFormat = "json"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
)

// Exporter выгружает результаты сравнения в файлы отчетов
type Exporter struct{}

// NewExporter создает новый экспортер отчетов
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export выгружает результат сравнения в указанном формате
func (e *Exporter) Export(result *comparison.Result, format ExportFormat, filename string) error {
	switch format {
	case FormatJSON:
		return e.ExportJSON(result, filename)
	case FormatCSV:
		return e.ExportCSV(result, filename)
	case FormatExcel:
		return e.ExportExcel(result, filename)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportJSON выгружает результат сравнения в JSON
func (e *Exporter) ExportJSON(result *comparison.Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	payload := map[string]any{
		"exported_at": time.Now().Format(time.RFC3339),
		"comparison":  result,
	}

	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportCSV выгружает сравнительную таблицу в CSV
func (e *Exporter) ExportCSV(result *comparison.Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Параметр", "Опорный банк", "Конкурент"}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, row := range result.Table {
		record := []string{row.Parameter, row.Reference, row.Competitor}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}

// ExportExcel выгружает полный отчет о сравнении в Excel:
// таблица, выводы, преимущества сторон и рекомендация
func (e *Exporter) ExportExcel(result *comparison.Result, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Сравнение"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{"Параметр", "Опорный банк", "Конкурент"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range result.Table {
		r := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), row.Parameter)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), row.Reference)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", r), row.Competitor)
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 25)
	}

	// Выводы и рекомендация на отдельном листе
	summarySheet := "Выводы"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rowNum := 1
	writeSection := func(title string, lines []string) {
		cell := fmt.Sprintf("A%d", rowNum)
		f.SetCellValue(summarySheet, cell, title)
		f.SetCellStyle(summarySheet, cell, cell, headerStyle)
		rowNum++
		for _, line := range lines {
			f.SetCellValue(summarySheet, fmt.Sprintf("A%d", rowNum), line)
			rowNum++
		}
		rowNum++
	}

	writeSection("Выводы", result.Insights)
	writeSection("Преимущества опорного банка", result.ReferenceAdvantages)
	writeSection("Преимущества конкурента", result.CompetitorAdvantages)
	writeSection("Рекомендация", []string{result.Recommendation})
	f.SetColWidth(summarySheet, "A", "A", 70)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}
