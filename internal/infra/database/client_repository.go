package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

const uniqueViolation = "23505"

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ClientRepository must run inside a transaction: Create guards its insert
// with a savepoint.
type ClientRepository struct {
	DB DBTX
}

func NewClientRepository(db DBTX) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (*entity.Client, error) {
	query := `
		SELECT id, company_name, contact_name, email, phone, status, created_at
		FROM clients
		WHERE email = $1
		ORDER BY id
		LIMIT 1
	`

	var (
		c       entity.Client
		company sql.NullString
		phone   sql.NullString
		status  string
	)
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&c.ID,
		&company,
		&c.ContactName,
		&c.Email,
		&phone,
		&status,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select client: %w", err)
	}

	c.CompanyName = nullableString(company)
	c.Phone = nullableString(phone)
	c.Status = entity.ClientStatus(status)
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	if _, err := r.DB.ExecContext(ctx, `SAVEPOINT client_insert`); err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}

	query := `
		INSERT INTO clients (company_name, contact_name, email, phone, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		c.CompanyName,
		c.ContactName,
		c.Email,
		c.Phone,
		string(c.Status),
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			if _, rbErr := r.DB.ExecContext(ctx, `ROLLBACK TO SAVEPOINT client_insert`); rbErr != nil {
				return fmt.Errorf("rollback to savepoint: %w", rbErr)
			}
			return entity.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert client: %w", err)
	}

	if _, err := r.DB.ExecContext(ctx, `RELEASE SAVEPOINT client_insert`); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
