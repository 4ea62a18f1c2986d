package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Partner, error)
	List(ctx context.Context, filter Filter) ([]*Partner, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var partnerColumns = []string{
	"id", "full_name", "role", "experience_years", "rating", "total_reviews",
	"specializations", "languages", "kecamatan", "description", "profile_image",
	"hourly_rate", "daily_rate", "monthly_rate", "is_available", "created_at",
}

// sortColumns maps the public sort keys to columns.
var sortColumns = map[string]string{
	"rating":     "rating",
	"experience": "experience_years",
	"price":      "hourly_rate",
	"created_at": "created_at",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPartner(row scanner, extra ...any) (*Partner, error) {
	var p Partner
	dest := []any{
		&p.ID, &p.FullName, &p.Role, &p.ExperienceYears, &p.Rating, &p.TotalReviews,
		&p.Specializations, &p.Languages, &p.District, &p.Description, &p.ProfileImage,
		&p.Pricing.Hourly, &p.Pricing.Daily, &p.Pricing.Monthly, &p.IsAvailable, &p.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Partner, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(partnerColumns...).
		From("public.partners").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get partner query failed: %w", err)
	}

	p, err := scanPartner(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get partner failed: %w", err)
	}
	return p, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Partner, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(partnerColumns, "count(*) OVER() AS total_count")...).
		From("public.partners")

	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": string(filter.Role)})
	}
	if filter.District != "" {
		query = query.Where(squirrel.ILike{"kecamatan": filter.District})
	}
	if filter.MinRating != nil {
		query = query.Where(squirrel.GtOrEq{"rating": *filter.MinRating})
	}
	if filter.MinExperience != nil {
		query = query.Where(squirrel.GtOrEq{"experience_years": *filter.MinExperience})
	}
	if filter.MaxHourlyRate != nil {
		query = query.Where(squirrel.LtOrEq{"hourly_rate": *filter.MaxHourlyRate})
	}
	if filter.Specialization != "" {
		query = query.Where("? = ANY(specializations)", filter.Specialization)
	}
	if filter.AvailableOnly {
		query = query.Where(squirrel.Eq{"is_available": true})
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "rating"
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "id")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list partners query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list partners failed: %w", err)
	}
	defer rows.Close()

	var (
		result []*Partner
		total  int
	)
	for rows.Next() {
		p, err := scanPartner(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan partner failed: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate partners failed: %w", err)
	}

	return result, total, nil
}
