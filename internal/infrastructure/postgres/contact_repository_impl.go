package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/agenda-api/internal/domain/entity"
	"github.com/oksasatya/agenda-api/internal/domain/repository"
)

const contactsTable = "contacts"

var contactColumns = []string{"id", "name", "email", "phone_number", "observations", "created_at", "updated_at"}

type ContactRepository struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{
		pool: pool,
		qb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	c := &entity.Contact{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber, &c.Observations, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *ContactRepository) FindAll(ctx context.Context) ([]*entity.Contact, error) {
	query, args, err := r.qb.Select(contactColumns...).From(contactsTable).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("fail to build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fail to query: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("fail to scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepository) FindByID(ctx context.Context, id int64) (*entity.Contact, error) {
	query, args, err := r.qb.Select(contactColumns...).From(contactsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("fail to build query: %w", err)
	}

	c, err := scanContact(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ContactRepository) Save(ctx context.Context, c *entity.Contact) (*entity.Contact, error) {
	if c.IsNew() {
		return r.insert(ctx, c)
	}
	return r.update(ctx, c)
}

func (r *ContactRepository) insert(ctx context.Context, c *entity.Contact) (*entity.Contact, error) {
	query, args, err := r.qb.Insert(contactsTable).
		SetMap(map[string]any{
			"name":         c.Name,
			"email":        c.Email,
			"phone_number": c.PhoneNumber,
			"observations": c.Observations,
		}).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("fail to build query: %w", err)
	}

	out := c.Clone()
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, fmt.Errorf("fail to insert contact: %w", err)
	}
	return out, nil
}

func (r *ContactRepository) update(ctx context.Context, c *entity.Contact) (*entity.Contact, error) {
	query, args, err := r.qb.Update(contactsTable).
		SetMap(map[string]any{
			"name":         c.Name,
			"email":        c.Email,
			"phone_number": c.PhoneNumber,
			"observations": c.Observations,
			"updated_at":   time.Now().UTC(),
		}).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("fail to build query: %w", err)
	}

	out := c.Clone()
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("fail to update contact: %w", err)
	}
	return out, nil
}

func (r *ContactRepository) DeleteByID(ctx context.Context, id int64) error {
	query, args, err := r.qb.Delete(contactsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("fail to build query: %w", err)
	}

	res, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("fail to exec: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
