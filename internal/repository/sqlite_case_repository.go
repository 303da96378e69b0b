package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/case-service/internal/domain"
)

type sqliteCaseRepository struct {
	db *sql.DB
}

// NewSQLiteCaseRepository returns a store over a database opened with the modernc driver.
// The cases table must already exist.
func NewSQLiteCaseRepository(db *sql.DB) CaseRepository {
	return &sqliteCaseRepository{db: db}
}

func (r *sqliteCaseRepository) List(ctx context.Context) ([]domain.Case, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+caseColumns+` FROM cases ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := []domain.Case{}
	for rows.Next() {
		c, err := scanSQLiteCase(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *sqliteCaseRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *sqliteCaseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	c, err := scanSQLiteCase(r.db.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCaseNotFound
	}
	return c, err
}

func (r *sqliteCaseRepository) Create(ctx context.Context, c *domain.Case) error {
	const query = `INSERT INTO cases (` + caseColumns + `) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.CaseNumber,
		c.ClientName,
		c.ClientEmail,
		c.ClientPhone,
		string(c.Status),
		string(c.Priority),
		c.PropertyAddress,
		c.PropertyCity,
		c.PropertyProvince,
		c.PropertyPostalCode,
		c.IssueType,
		c.Description,
		c.AssignedTo,
		c.Notes,
		formatSQLiteTime(c.CreatedAt),
		formatSQLiteTime(c.UpdatedAt),
		c.CreatedBy,
		c.LastModifiedBy,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrCaseConflict
	}
	return err
}

func (r *sqliteCaseRepository) Update(ctx context.Context, id string, mutate CaseMutator) (retCase *domain.Case, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	c, err := scanSQLiteCase(tx.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCaseNotFound
	}
	if err != nil {
		return nil, err
	}

	mutate(c)
	c.ID = id

	const query = `UPDATE cases SET status=?, priority=?, assigned_to=?, notes=?, issue_type=?,
        description=?, updated_at=?, last_modified_by=? WHERE id=?`
	if _, err := tx.ExecContext(ctx, query,
		string(c.Status),
		string(c.Priority),
		c.AssignedTo,
		c.Notes,
		c.IssueType,
		c.Description,
		formatSQLiteTime(c.UpdatedAt),
		c.LastModifiedBy,
		id,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}

func scanSQLiteCase(row rowScanner) (*domain.Case, error) {
	var (
		c                    domain.Case
		status, priority     string
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&c.ID,
		&c.CaseNumber,
		&c.ClientName,
		&c.ClientEmail,
		&c.ClientPhone,
		&status,
		&priority,
		&c.PropertyAddress,
		&c.PropertyCity,
		&c.PropertyProvince,
		&c.PropertyPostalCode,
		&c.IssueType,
		&c.Description,
		&c.AssignedTo,
		&c.Notes,
		&createdAt,
		&updatedAt,
		&c.CreatedBy,
		&c.LastModifiedBy,
	); err != nil {
		return nil, err
	}
	c.Status = domain.CaseStatus(status)
	c.Priority = domain.CasePriority(priority)

	var err error
	if c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &c, nil
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
