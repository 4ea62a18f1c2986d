package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// Cancel moves a pending booking to cancelled. It returns ErrNotCancellable
	// when the booking is no longer pending.
	Cancel(ctx context.Context, id, reason string) error

	// Reschedule cancels the active booking oldID and creates nb in one
	// transaction. It returns ErrNotReschedulable when oldID is no longer
	// active and ErrTimeConflict when nb overlaps another booking.
	Reschedule(ctx context.Context, oldID string, nb *Booking) error

	// UpdateStatus moves the booking from one status to another. It returns
	// ErrInvalidTransition when the booking is not in status from.
	UpdateStatus(ctx context.Context, id string, from, to Status) error

	// HasOverlap reports whether the partner holds a pending or confirmed
	// booking intersecting [start, end), ignoring excludeID when it is set.
	HasOverlap(ctx context.Context, partnerID string, start, end time.Time, excludeID string) (bool, error)

	// BusyRanges lists the spans of the partner's active bookings that
	// intersect [from, to), ordered by start.
	BusyRanges(ctx context.Context, partnerID string, from, to time.Time) ([]TimeRange, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"b.id", "b.customer_id", "b.partner_id", "p.full_name", "b.type",
	"b.start_datetime", "b.end_datetime", "b.duration", "b.status", "b.total_price",
	"b.notes", "b.cancellation_reason", "b.original_booking_id", "b.created_at", "b.updated_at",
}

func scanDest(b *Booking) []any {
	return []any{
		&b.ID, &b.CustomerID, &b.PartnerID, &b.PartnerName, &b.Type,
		&b.StartTime, &b.EndTime, &b.Duration, &b.Status, &b.TotalPrice,
		&b.Notes, &b.CancellationReason, &b.OriginalBookingID, &b.CreatedAt, &b.UpdatedAt,
	}
}

// insertQuery builds the INSERT for b, returning its generated columns.
func insertQuery(b *Booking) (string, []any, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Insert("public.bookings").
		Columns("customer_id", "partner_id", "type", "start_datetime", "end_datetime",
			"duration", "status", "total_price", "notes", "original_booking_id").
		Values(b.CustomerID, b.PartnerID, string(b.Type), b.StartTime, b.EndTime,
			b.Duration, string(b.Status), b.TotalPrice, b.Notes, b.OriginalBookingID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
}

// mapInsertError turns an exclusion violation, an overlap that raced past
// HasOverlap, into ErrTimeConflict.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
		return ErrTimeConflict
	}
	return fmt.Errorf("create booking failed: %w", err)
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := insertQuery(b)
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapInsertError(err)
	}
	return nil
}

func (r *pgxRepository) Reschedule(ctx context.Context, oldID string, nb *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	cancelQuery, cancelArgs, err := psql.Update("public.bookings").
		Set("status", string(StatusCancelled)).
		Set("cancellation_reason", RescheduledReason).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": oldID, "status": activeStatuses}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reschedule cancel query failed: %w", err)
	}
	insert, insertArgs, err := insertQuery(nb)
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, cancelQuery, cancelArgs...)
		if err != nil {
			return fmt.Errorf("cancel rescheduled booking failed: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return ErrNotReschedulable
		}

		if err := tx.QueryRow(ctx, insert, insertArgs...).Scan(&nb.ID, &nb.CreatedAt, &nb.UpdatedAt); err != nil {
			return mapInsertError(err)
		}
		return nil
	})
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.partners p ON b.partner_id = p.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := r.pool.QueryRow(ctx, query, args...).Scan(scanDest(&b)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(bookingColumns, "count(*) OVER() AS total_count")...).
		From("public.bookings b").
		Join("public.partners p ON b.partner_id = p.id")

	if filter.CustomerID != "" {
		query = query.Where(squirrel.Eq{"b.customer_id": filter.CustomerID})
	}
	if filter.PartnerID != "" {
		query = query.Where(squirrel.Eq{"b.partner_id": filter.PartnerID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": string(filter.Status)})
	}

	orderBy := "b.start_datetime"
	if filter.SortBy == "created_at" {
		orderBy = "b.created_at"
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

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
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var (
		bookings []*Booking
		total    int
	)
	for rows.Next() {
		var b Booking
		if err := rows.Scan(append(scanDest(&b), &total)...); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) Cancel(ctx context.Context, id, reason string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", string(StatusCancelled)).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(StatusPending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build cancel booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("cancel booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotCancellable
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, partnerID string, start, end time.Time, excludeID string) (bool, error) {
	// Overlap: NewStart < ExistingEnd AND NewEnd > ExistingStart.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"partner_id": partnerID, "status": activeStatuses}).
		Where(squirrel.Lt{"start_datetime": end}).
		Where(squirrel.Gt{"end_datetime": start})
	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}
	sql, args, err := query.
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) BusyRanges(ctx context.Context, partnerID string, from, to time.Time) ([]TimeRange, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("start_datetime", "end_datetime").
		From("public.bookings").
		Where(squirrel.Eq{"partner_id": partnerID, "status": activeStatuses}).
		Where(squirrel.Lt{"start_datetime": to}).
		Where(squirrel.Gt{"end_datetime": from}).
		OrderBy("start_datetime").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build busy ranges query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list busy ranges failed: %w", err)
	}
	defer rows.Close()

	var ranges []TimeRange
	for rows.Next() {
		var tr TimeRange
		if err := rows.Scan(&tr.Start, &tr.End); err != nil {
			return nil, fmt.Errorf("scan busy range failed: %w", err)
		}
		ranges = append(ranges, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate busy ranges failed: %w", err)
	}
	return ranges, nil
}
