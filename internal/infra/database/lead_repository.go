package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/analytics"
	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/query"
)

type LeadRepository struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewLeadRepository(db *sql.DB, timeout time.Duration) *LeadRepository {
	return &LeadRepository{DB: db, Timeout: timeout}
}

func (r *LeadRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID,
		&l.FirstName,
		&l.LastName,
		&l.Email,
		&l.Phone,
		&l.Company,
		&l.Source,
		&l.Stage,
		&l.Value,
		&l.Probability,
		&l.Notes,
		&l.AssignedTo,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return &l, nil
}

func (r *LeadRepository) Find(ctx context.Context, filter query.Filter, sort query.Sort, skip, limit int) ([]*entity.Lead, error) {
	if skip < 0 {
		return []*entity.Lead{}, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a args
	q := "SELECT " + leadColumns + " FROM leads" + buildWhere(filter, &a) + buildOrderBy(sort)
	if limit > 0 {
		q += " LIMIT " + a.add(limit)
	}
	if skip > 0 {
		q += " OFFSET " + a.add(skip)
	}

	rows, err := r.DB.QueryContext(ctx, q, a...)
	if err != nil {
		return nil, classify(fmt.Errorf("query leads: %w", err))
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, classify(err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return leads, nil
}

func (r *LeadRepository) Count(ctx context.Context, filter query.Filter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a args
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads"+buildWhere(filter, &a), a...).Scan(&n)
	if err != nil {
		return 0, classify(fmt.Errorf("count leads: %w", err))
	}
	return n, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.DB.QueryRowContext(ctx, "SELECT "+leadColumns+" FROM leads WHERE id = $1", id)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return l, nil
}

func (r *LeadRepository) Insert(ctx context.Context, l *entity.Lead) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := `
		INSERT INTO leads (id, first_name, last_name, email, phone, company, source, stage,
			value, probability, notes, assigned_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.DB.ExecContext(ctx, q,
		l.ID,
		l.FirstName,
		l.LastName,
		l.Email,
		l.Phone,
		l.Company,
		string(l.Source),
		string(l.Stage),
		l.Value,
		l.Probability,
		l.Notes,
		l.AssignedTo,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a args
	sets := make([]string, 0, 12)
	for _, c := range patch.Changes() {
		col, ok := columns[c.Field]
		if !ok {
			return nil, fmt.Errorf("unknown patch field %q", c.Field)
		}
		sets = append(sets, col+" = "+a.add(c.Value))
	}
	sets = append(sets, "updated_at = GREATEST("+a.add(entity.Now())+"::timestamptz, created_at)")

	q := "UPDATE leads SET " + strings.Join(sets, ", ") +
		" WHERE id = " + a.add(id) + " RETURNING " + leadColumns

	l, err := scanLead(r.DB.QueryRowContext(ctx, q, a...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return l, nil
}

func (r *LeadRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify(err)
	}
	return n > 0, nil
}

func (r *LeadRepository) Buckets(ctx context.Context) ([]analytics.Bucket, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, `
		SELECT stage, source, COUNT(*), COALESCE(SUM(value), 0)
		FROM leads
		GROUP BY stage, source
	`)
	if err != nil {
		return nil, classify(fmt.Errorf("aggregate leads: %w", err))
	}
	defer rows.Close()

	var out []analytics.Bucket
	for rows.Next() {
		var b analytics.Bucket
		if err := rows.Scan(&b.Stage, &b.Source, &b.Count, &b.Value); err != nil {
			return nil, classify(err)
		}
		out = append(out, b)
	}
	return out, classify(rows.Err())
}

// DeleteAll truncates the table and reports how many rows it held.
func (r *LeadRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM leads")
	if err != nil {
		return 0, classify(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *LeadRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return classify(r.DB.PingContext(ctx))
}
