package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"starlink_crm_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// clientCapacityLockKey identifies the advisory lock serializing client inserts.
const clientCapacityLockKey int64 = 0x636c69656e7473

const clientColumns = `id, full_name, email, phone, location, service_type, price,
	serial_number, supporter, has_bonus, created_at, updated_at`

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	Count(ctx context.Context, executor SQLExecutor) (int, error)
	Insert(ctx context.Context, executor SQLExecutor, client *models.Client) (int64, error)
	SelectPage(ctx context.Context, limit, offset int) ([]models.Client, error)
	GetByID(ctx context.Context, id int64) (*models.Client, error)
	UpdateByID(ctx context.Context, executor SQLExecutor, client *models.Client) (int64, error) // Rows affected
	DeleteByID(ctx context.Context, executor SQLExecutor, id int64) (int64, error)               // Rows affected
	SelectReminderCandidates(ctx context.Context, before time.Time) ([]models.Client, error)
	WithCapacityLock(ctx context.Context, fn func(executor SQLExecutor) error) error
}

type clientRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db, now: time.Now}
}

// Count returns the total number of stored clients.
func (r *clientRepository) Count(ctx context.Context, executor SQLExecutor) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, executor, &total, `SELECT COUNT(*) FROM clients`); err != nil {
		return 0, fmt.Errorf("%w: counting clients: %v", ErrDatabaseError, err)
	}
	return total, nil
}

// Insert stores a new client and returns its id. CreatedAt and UpdatedAt are
// both set to the current time.
func (r *clientRepository) Insert(ctx context.Context, executor SQLExecutor, client *models.Client) (int64, error) {
	query := `INSERT INTO clients (full_name, email, phone, location, service_type, price,
	            serial_number, supporter, has_bonus, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`

	currentTime := r.now().UTC()
	client.CreatedAt = currentTime
	client.UpdatedAt = currentTime

	err := executor.QueryRowxContext(ctx, query,
		client.FullName, client.Email, client.Phone, client.Location, client.ServiceType, client.Price,
		client.SerialNumber, client.Supporter, client.HasBonus, client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating client: %v", ErrDatabaseError, err)
	}
	return client.ID, nil
}

// SelectPage returns up to limit clients, newest first, skipping offset rows.
func (r *clientRepository) SelectPage(ctx context.Context, limit, offset int) ([]models.Client, error) {
	clients := []models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients
	          ORDER BY created_at DESC, id DESC
	          LIMIT $1 OFFSET $2`
	if err := sqlx.SelectContext(ctx, r.db, &clients, query, limit, offset); err != nil {
		return nil, fmt.Errorf("%w: querying clients page: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// GetByID retrieves a client by their ID.
func (r *clientRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, client, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// UpdateByID replaces every mutable field of the client and refreshes
// updated_at. created_at is never written.
func (r *clientRepository) UpdateByID(ctx context.Context, executor SQLExecutor, client *models.Client) (int64, error) {
	query := `UPDATE clients SET
	            full_name = $1, email = $2, phone = $3, location = $4, service_type = $5,
	            price = $6, serial_number = $7, supporter = $8, has_bonus = $9, updated_at = $10
	          WHERE id = $11`

	client.UpdatedAt = r.now().UTC()
	result, err := executor.ExecContext(ctx, query,
		client.FullName, client.Email, client.Phone, client.Location, client.ServiceType,
		client.Price, client.SerialNumber, client.Supporter, client.HasBonus, client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	return rowsAffected, nil
}

// DeleteByID removes a client permanently.
func (r *clientRepository) DeleteByID(ctx context.Context, executor SQLExecutor, id int64) (int64, error) {
	result, err := executor.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	return rowsAffected, nil
}

// SelectReminderCandidates returns clients created strictly before the given
// instant, oldest first. The 28-day cadence is applied by the caller.
func (r *clientRepository) SelectReminderCandidates(ctx context.Context, before time.Time) ([]models.Client, error) {
	clients := []models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients
	          WHERE created_at < $1
	          ORDER BY created_at ASC, id ASC`
	if err := sqlx.SelectContext(ctx, r.db, &clients, query, before); err != nil {
		return nil, fmt.Errorf("%w: querying reminder candidates: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// WithCapacityLock runs fn inside a transaction holding a transaction-scoped
// advisory lock, so concurrent count-then-insert sequences cannot interleave.
// The transaction commits only when fn returns nil.
func (r *clientRepository) WithCapacityLock(ctx context.Context, fn func(executor SQLExecutor) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, clientCapacityLockKey); err != nil {
		return fmt.Errorf("%w: acquiring client capacity lock: %v", ErrDatabaseError, err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", ErrDatabaseError, err)
	}
	return nil
}
