package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/orderdesk/etransfer/internal/database"
	"github.com/orderdesk/etransfer/internal/merchants/domain"
)

// MySQLMerchantRepository handles merchant persistence for MySQL.
type MySQLMerchantRepository struct {
	db *sql.DB
}

// NewMySQLMerchantRepository creates a new MySQLMerchantRepository.
func NewMySQLMerchantRepository(db *sql.DB) *MySQLMerchantRepository {
	return &MySQLMerchantRepository{
		db: db,
	}
}

// Create inserts a new merchant.
func (r *MySQLMerchantRepository) Create(ctx context.Context, merchant *domain.Merchant) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO merchants (id, name, email, license_key_hash, active, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		merchant.ID, merchant.Name, merchant.Email, merchant.LicenseKeyHash, merchant.Active)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrMerchantAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID retrieves a merchant by id.
func (r *MySQLMerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE id = ?`
	return scanMerchant(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a merchant by email.
func (r *MySQLMerchantRepository) GetByEmail(ctx context.Context, email string) (*domain.Merchant, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE email = ?`
	return scanMerchant(querier.QueryRowContext(ctx, query, email))
}

// List retrieves merchants ordered by creation time, newest first.
func (r *MySQLMerchantRepository) List(ctx context.Context, limit, offset int) ([]*domain.Merchant, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + merchantColumns + ` FROM merchants ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMerchants(rows)
}

// Update persists changes to an existing merchant. The DSN must set
// clientFoundRows=true so an identical row still counts as matched.
func (r *MySQLMerchantRepository) Update(ctx context.Context, merchant *domain.Merchant) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE merchants
			  SET name = ?, email = ?, license_key_hash = ?, active = ?, updated_at = NOW()
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query,
		merchant.Name, merchant.Email, merchant.LicenseKeyHash, merchant.Active, merchant.ID)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrMerchantAlreadyExists
		}
		return err
	}
	return requireMerchantRow(result)
}

// Delete removes a merchant.
func (r *MySQLMerchantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM merchants WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireMerchantRow(result)
}

func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
