package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"bankcompare/comparison"
	"bankcompare/schema"
)

// Config параметры пула соединений с БД
type Config struct {
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
}

// DefaultConfig параметры пула по умолчанию
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Store хранилище исходных записей продуктов и сохраненных сравнений
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open открывает хранилище SQLite и применяет миграции
func Open(path string, cfg Config) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{
		db:     db,
		logger: slog.Default().With("component", "store"),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close закрывает соединение с БД
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			bank TEXT NOT NULL,
			product_type TEXT NOT NULL,
			payload TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (bank, product_type)
		)`,
		`CREATE TABLE IF NOT EXISTS comparisons (
			id TEXT PRIMARY KEY,
			product_type TEXT NOT NULL,
			reference_bank TEXT NOT NULL,
			competitor_bank TEXT NOT NULL,
			result TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comparisons_created_at
			ON comparisons (created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveProduct сохраняет исходную запись продукта банка
func (s *Store) SaveProduct(bank string, productType schema.ProductType, record schema.RawRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal product record: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO products (bank, product_type, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (bank, product_type) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		bank, string(productType), string(payload), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save product %s/%s: %w", bank, productType, err)
	}

	s.logger.Debug("Saved product", "bank", bank, "product_type", productType)
	return nil
}

// GetProduct возвращает исходную запись продукта банка
func (s *Store) GetProduct(bank string, productType schema.ProductType) (schema.RawRecord, error) {
	var payload string
	err := s.db.QueryRow(`
		SELECT payload FROM products
		WHERE bank = ? AND product_type = ?`,
		bank, string(productType)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %s/%s not found", bank, productType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product %s/%s: %w", bank, productType, err)
	}

	var record schema.RawRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("corrupted product payload for %s/%s: %w", bank, productType, err)
	}
	return record, nil
}

// ListBanks возвращает банки, по которым сохранены продукты данного типа
func (s *Store) ListBanks(productType schema.ProductType) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT bank FROM products
		WHERE product_type = ?
		ORDER BY bank`,
		string(productType))
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	defer rows.Close()

	banks := []string{}
	for rows.Next() {
		var bank string
		if err := rows.Scan(&bank); err != nil {
			return nil, fmt.Errorf("failed to scan bank: %w", err)
		}
		banks = append(banks, bank)
	}
	return banks, rows.Err()
}

// SavedComparison сохраненный результат сравнения
type SavedComparison struct {
	ID             string             `json:"id"`
	ProductType    schema.ProductType `json:"product_type"`
	ReferenceBank  string             `json:"reference_bank"`
	CompetitorBank string             `json:"competitor_bank"`
	Result         *comparison.Result `json:"result"`
	CreatedAt      string             `json:"created_at"`
}

// SaveComparison сохраняет результат сравнения и возвращает его идентификатор
func (s *Store) SaveComparison(productType schema.ProductType, referenceBank, competitorBank string, result *comparison.Result) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal comparison result: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.Exec(`
		INSERT INTO comparisons (id, product_type, reference_bank, competitor_bank, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(productType), referenceBank, competitorBank, string(payload),
		time.Now().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("failed to save comparison: %w", err)
	}

	return id, nil
}

// GetComparison возвращает сохраненное сравнение по идентификатору
func (s *Store) GetComparison(id string) (*SavedComparison, error) {
	var saved SavedComparison
	var productType, payload string

	err := s.db.QueryRow(`
		SELECT id, product_type, reference_bank, competitor_bank, result, created_at
		FROM comparisons WHERE id = ?`, id).Scan(
		&saved.ID, &productType, &saved.ReferenceBank, &saved.CompetitorBank,
		&payload, &saved.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("comparison %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison %s: %w", id, err)
	}

	saved.ProductType = schema.ProductType(productType)
	if err := json.Unmarshal([]byte(payload), &saved.Result); err != nil {
		return nil, fmt.Errorf("corrupted comparison payload for %s: %w", id, err)
	}
	return &saved, nil
}

// RecentComparisons возвращает последние сохраненные сравнения
func (s *Store) RecentComparisons(limit int) ([]SavedComparison, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, product_type, reference_bank, competitor_bank, result, created_at
		FROM comparisons
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparisons: %w", err)
	}
	defer rows.Close()

	comparisons := []SavedComparison{}
	for rows.Next() {
		var saved SavedComparison
		var productType, payload string
		if err := rows.Scan(&saved.ID, &productType, &saved.ReferenceBank,
			&saved.CompetitorBank, &payload, &saved.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		saved.ProductType = schema.ProductType(productType)
		if err := json.Unmarshal([]byte(payload), &saved.Result); err != nil {
			s.logger.Warn("Skipping corrupted comparison payload", "id", saved.ID, "error", err)
			continue
		}
		comparisons = append(comparisons, saved)
	}
	return comparisons, rows.Err()
}
