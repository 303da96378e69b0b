package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/case-service/internal/domain"
)

const pgUniqueViolation = "23505"

const caseColumns = `id, case_number, client_name, client_email, client_phone, status, priority,
        property_address, property_city, property_province, property_postal_code,
        issue_type, description, assigned_to, notes, created_at, updated_at, created_by, last_modified_by`

type postgresCaseRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCaseRepository instantiates a pgx-backed store.
func NewPostgresCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &postgresCaseRepository{pool: pool}
}

func (r *postgresCaseRepository) List(ctx context.Context) ([]domain.Case, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+caseColumns+` FROM cases ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Case{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *postgresCaseRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cases`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresCaseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	c, err := scanCase(r.pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCaseNotFound
	}
	return c, err
}

func (r *postgresCaseRepository) Create(ctx context.Context, c *domain.Case) error {
	const query = `
        INSERT INTO cases (` + caseColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`
	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.CaseNumber,
		c.ClientName,
		c.ClientEmail,
		c.ClientPhone,
		c.Status,
		c.Priority,
		c.PropertyAddress,
		c.PropertyCity,
		c.PropertyProvince,
		c.PropertyPostalCode,
		c.IssueType,
		c.Description,
		c.AssignedTo,
		c.Notes,
		c.CreatedAt,
		c.UpdatedAt,
		c.CreatedBy,
		c.LastModifiedBy,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrCaseConflict
	}
	return err
}

func (r *postgresCaseRepository) Update(ctx context.Context, id string, mutate CaseMutator) (*domain.Case, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	c, err := scanCase(tx.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCaseNotFound
	}
	if err != nil {
		return nil, err
	}

	mutate(c)
	c.ID = id

	const query = `
        UPDATE cases SET status=$1, priority=$2, assigned_to=$3, notes=$4, issue_type=$5,
            description=$6, updated_at=$7, last_modified_by=$8
        WHERE id=$9`
	if _, err := tx.Exec(ctx, query,
		c.Status,
		c.Priority,
		c.AssignedTo,
		c.Notes,
		c.IssueType,
		c.Description,
		c.UpdatedAt,
		c.LastModifiedBy,
		id,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*domain.Case, error) {
	var c domain.Case
	if err := row.Scan(
		&c.ID,
		&c.CaseNumber,
		&c.ClientName,
		&c.ClientEmail,
		&c.ClientPhone,
		&c.Status,
		&c.Priority,
		&c.PropertyAddress,
		&c.PropertyCity,
		&c.PropertyProvince,
		&c.PropertyPostalCode,
		&c.IssueType,
		&c.Description,
		&c.AssignedTo,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.CreatedBy,
		&c.LastModifiedBy,
	); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}
