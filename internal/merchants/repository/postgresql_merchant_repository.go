// Package repository provides data persistence implementations for merchant entities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/orderdesk/etransfer/internal/database"
	"github.com/orderdesk/etransfer/internal/merchants/domain"
)

const merchantColumns = "id, name, email, license_key_hash, active, created_at, updated_at"

// PostgreSQLMerchantRepository handles merchant persistence for PostgreSQL.
type PostgreSQLMerchantRepository struct {
	db *sql.DB
}

// NewPostgreSQLMerchantRepository creates a new PostgreSQLMerchantRepository.
func NewPostgreSQLMerchantRepository(db *sql.DB) *PostgreSQLMerchantRepository {
	return &PostgreSQLMerchantRepository{
		db: db,
	}
}

// Create inserts a new merchant.
func (r *PostgreSQLMerchantRepository) Create(ctx context.Context, merchant *domain.Merchant) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO merchants (id, name, email, license_key_hash, active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		merchant.ID, merchant.Name, merchant.Email, merchant.LicenseKeyHash, merchant.Active)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrMerchantAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID retrieves a merchant by id.
func (r *PostgreSQLMerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE id = $1`
	return scanMerchant(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a merchant by email.
func (r *PostgreSQLMerchantRepository) GetByEmail(ctx context.Context, email string) (*domain.Merchant, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE email = $1`
	return scanMerchant(querier.QueryRowContext(ctx, query, email))
}

// List retrieves merchants ordered by creation time, newest first.
func (r *PostgreSQLMerchantRepository) List(ctx context.Context, limit, offset int) ([]*domain.Merchant, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + merchantColumns + ` FROM merchants ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMerchants(rows)
}

// Update persists changes to an existing merchant.
func (r *PostgreSQLMerchantRepository) Update(ctx context.Context, merchant *domain.Merchant) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE merchants
			  SET name = $1, email = $2, license_key_hash = $3, active = $4, updated_at = NOW()
			  WHERE id = $5`

	result, err := querier.ExecContext(ctx, query,
		merchant.Name, merchant.Email, merchant.LicenseKeyHash, merchant.Active, merchant.ID)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrMerchantAlreadyExists
		}
		return err
	}
	return requireMerchantRow(result)
}

// Delete removes a merchant.
func (r *PostgreSQLMerchantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM merchants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireMerchantRow(result)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMerchant(row rowScanner) (*domain.Merchant, error) {
	var merchant domain.Merchant
	err := row.Scan(
		&merchant.ID,
		&merchant.Name,
		&merchant.Email,
		&merchant.LicenseKeyHash,
		&merchant.Active,
		&merchant.CreatedAt,
		&merchant.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMerchantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func collectMerchants(rows *sql.Rows) ([]*domain.Merchant, error) {
	merchants := make([]*domain.Merchant, 0)
	for rows.Next() {
		merchant, err := scanMerchant(rows)
		if err != nil {
			return nil, err
		}
		merchants = append(merchants, merchant)
	}
	return merchants, rows.Err()
}

func requireMerchantRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrMerchantNotFound
	}
	return nil
}

func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
