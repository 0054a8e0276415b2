package quality

import (
	"fmt"
	"sort"
	"strings"

	"bankcompare/schema"
)

// BankIssues проблемы, найденные у одного банка
type BankIssues struct {
	Bank         string   `json:"bank"`
	Issues       []string `json:"issues"`
	Completeness string   `json:"completeness"`
}

// CommonIssue часто встречающаяся проблема по всем банкам
type CommonIssue struct {
	Issue string `json:"issue"`
	Count int    `json:"count"`
}

// Report сводный отчет о качестве данных нескольких банков
type Report struct {
	ProductType        schema.ProductType `json:"product_type"`
	TotalBanks         int                `json:"total_banks"`
	ValidBanks         int                `json:"valid_banks"`
	BanksWithIssues    []BankIssues       `json:"banks_with_issues"`
	CompletenessScores map[string]string  `json:"completeness_scores"`
	CommonIssues       []CommonIssue      `json:"common_issues"`
}

// GenerateReport строит сводный отчет о качестве данных по набору банков
func (v *Validator) GenerateReport(all map[string]schema.RawRecord, productType schema.ProductType) *Report {
	report := &Report{
		ProductType:        productType,
		TotalBanks:         len(all),
		BanksWithIssues:    []BankIssues{},
		CompletenessScores: make(map[string]string, len(all)),
		CommonIssues:       []CommonIssue{},
	}

	// Стабильный порядок обхода для воспроизводимых отчетов
	banks := make([]string, 0, len(all))
	for bank := range all {
		banks = append(banks, bank)
	}
	sort.Strings(banks)

	allIssues := []string{}
	for _, bank := range banks {
		data := all[bank]
		isValid, issues := v.ValidateProduct(data, productType, bank)
		completeness := v.CompletenessScore(data, productType)

		report.CompletenessScores[bank] = fmt.Sprintf("%.1f%%", completeness*100)

		if isValid {
			report.ValidBanks++
			continue
		}

		report.BanksWithIssues = append(report.BanksWithIssues, BankIssues{
			Bank:         bank,
			Issues:       issues,
			Completeness: fmt.Sprintf("%.1f%%", completeness*100),
		})
		allIssues = append(allIssues, issues...)
	}

	report.CommonIssues = topCommonIssues(allIssues, 5)
	return report
}

// topCommonIssues группирует проблемы по типу, отбрасывая детали
// конкретного банка, и возвращает n самых частых
func topCommonIssues(issues []string, n int) []CommonIssue {
	counts := map[string]int{}
	for _, issue := range issues {
		issueType := issue
		if idx := strings.LastIndex(issue, ":"); idx >= 0 {
			issueType = strings.TrimSpace(issue[idx+1:])
		}
		counts[issueType]++
	}

	common := make([]CommonIssue, 0, len(counts))
	for issue, count := range counts {
		common = append(common, CommonIssue{Issue: issue, Count: count})
	}
	sort.Slice(common, func(i, j int) bool {
		if common[i].Count != common[j].Count {
			return common[i].Count > common[j].Count
		}
		return common[i].Issue < common[j].Issue
	})

	if len(common) > n {
		common = common[:n]
	}
	return common
}
