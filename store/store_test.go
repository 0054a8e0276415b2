package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankcompare/comparison"
	"bankcompare/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetProduct(t *testing.T) {
	s := openTestStore(t)

	record := schema.RawRecord{"название": "СберКарта", "ставка": "19.9%", "стоимость": float64(0)}
	require.NoError(t, s.SaveProduct("sber", schema.CreditCard, record))

	loaded, err := s.GetProduct("sber", schema.CreditCard)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
}

func TestSaveProductUpsert(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveProduct("sber", schema.CreditCard, schema.RawRecord{"ставка": "19.9%"}))
	require.NoError(t, s.SaveProduct("sber", schema.CreditCard, schema.RawRecord{"ставка": "21.9%"}))

	loaded, err := s.GetProduct("sber", schema.CreditCard)
	require.NoError(t, err)
	assert.Equal(t, "21.9%", loaded["ставка"])

	banks, err := s.ListBanks(schema.CreditCard)
	require.NoError(t, err)
	assert.Equal(t, []string{"sber"}, banks)
}

func TestGetProductNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetProduct("sber", schema.CreditCard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListBanksScopedByProductType(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveProduct("vtb", schema.CreditCard, schema.RawRecord{}))
	require.NoError(t, s.SaveProduct("sber", schema.CreditCard, schema.RawRecord{}))
	require.NoError(t, s.SaveProduct("gazprombank", schema.Deposit, schema.RawRecord{}))

	banks, err := s.ListBanks(schema.CreditCard)
	require.NoError(t, err)
	assert.Equal(t, []string{"sber", "vtb"}, banks)
}

func TestSaveAndGetComparison(t *testing.T) {
	s := openTestStore(t)

	result := &comparison.Result{
		Table:                []comparison.Row{{Attribute: "bank", Parameter: "Банк", Reference: "sber", Competitor: "vtb"}},
		Insights:             []string{"✓ Процентные ставки практически идентичны"},
		ReferenceAdvantages:  []string{"• annual_fee: 0₽"},
		CompetitorAdvantages: []string{"• interest_rate: 17.9%"},
		Recommendation:       "Условия примерно сопоставимы",
	}

	id, err := s.SaveComparison(schema.CreditCard, "sber", "vtb", result)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	saved, err := s.GetComparison(id)
	require.NoError(t, err)
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, schema.CreditCard, saved.ProductType)
	assert.Equal(t, "sber", saved.ReferenceBank)
	assert.Equal(t, "vtb", saved.CompetitorBank)
	assert.Equal(t, result, saved.Result)
	assert.NotEmpty(t, saved.CreatedAt)
}

func TestGetComparisonNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetComparison("нет-такого-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRecentComparisons(t *testing.T) {
	s := openTestStore(t)

	result := &comparison.Result{Recommendation: "Условия примерно сопоставимы"}
	for i := 0; i < 3; i++ {
		_, err := s.SaveComparison(schema.CreditCard, "sber", "vtb", result)
		require.NoError(t, err)
	}

	comparisons, err := s.RecentComparisons(2)
	require.NoError(t, err)
	assert.Len(t, comparisons, 2)

	all, err := s.RecentComparisons(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecentComparisonsSkipsCorruptedPayload(t *testing.T) {
	s := openTestStore(t)

	result := &comparison.Result{Recommendation: "Условия примерно сопоставимы"}
	id, err := s.SaveComparison(schema.CreditCard, "sber", "vtb", result)
	require.NoError(t, err)

	_, err = s.db.Exec(`
		INSERT INTO comparisons (id, product_type, reference_bank, competitor_bank, result, created_at)
		VALUES ('broken', 'credit_card', 'sber', 'vtb', '{не json', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	comparisons, err := s.RecentComparisons(10)
	require.NoError(t, err)
	require.Len(t, comparisons, 1)
	assert.Equal(t, id, comparisons[0].ID)
}
