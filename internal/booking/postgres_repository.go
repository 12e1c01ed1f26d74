package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it for tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores bookings in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

const bookingColumns = `id, full_name, date_of_birth, gender, phone, email, address,
	service_category, service_subtype, requested_date, requested_time,
	note, status, doctor_name, created_at, updated_at`

// Create inserts a new row and fills the generated id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (full_name, date_of_birth, gender, phone, email, address,
			service_category, service_subtype, requested_date, requested_time, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + bookingColumns

	dob, err := dateArg(b.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("booking: encode date_of_birth: %w", err)
	}
	reqDate, err := time.Parse(DateFormat, b.RequestedDate)
	if err != nil {
		return nil, fmt.Errorf("booking: encode requested_date: %w", err)
	}
	reqTime, err := timeArg(b.RequestedTime)
	if err != nil {
		return nil, fmt.Errorf("booking: encode requested_time: %w", err)
	}

	row := r.db.QueryRow(ctx, query,
		b.FullName,
		dob,
		string(b.Gender),
		b.Phone,
		b.Email,
		b.Address,
		string(b.ServiceCategory),
		nullIfEmpty(string(b.ServiceSubtype)),
		reqDate,
		reqTime,
		nullIfEmpty(b.Note),
		string(b.Status),
	)
	created, err := scanBooking(row)
	if err != nil {
		return nil, fmt.Errorf("booking: insert failed: %w", err)
	}
	return created, nil
}

// GetByID fetches a single booking.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("booking: select failed: %w", err)
	}
	return b, nil
}

// List returns rows matching the filter ordered by id descending.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Booking, error) {
	if filter.None {
		return []*Booking{}, nil
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	args := []any{}
	where := ""
	if filter.Email != "" {
		args = append(args, filter.Email)
		where = fmt.Sprintf(" WHERE email = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		if where == "" {
			where = fmt.Sprintf(" WHERE status = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND status = $%d", len(args))
		}
	}
	query += where + " ORDER BY id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("booking: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan row: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus locks the row, checks the PENDING precondition and applies
// the transition in one transaction. Concurrent writers serialize on the
// row lock; the loser observes a non-PENDING status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status, doctorName string) (*Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("booking: lock row: %w", err)
	}
	if Status(current) != StatusPending {
		return nil, ErrAlreadyFinalized
	}

	query := `
		UPDATE bookings
		SET status = $2, doctor_name = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + bookingColumns
	updated, err := scanBooking(tx.QueryRow(ctx, query, id, string(status), nullIfEmpty(doctorName)))
	if err != nil {
		return nil, fmt.Errorf("booking: update failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("booking: commit: %w", err)
	}
	return updated, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var (
		b           Booking
		dob         pgtype.Date
		subtype     pgtype.Text
		reqDate     time.Time
		reqTime     pgtype.Time
		note        pgtype.Text
		doctorName  pgtype.Text
		gender      string
		category    string
		statusValue string
	)
	err := row.Scan(
		&b.ID,
		&b.FullName,
		&dob,
		&gender,
		&b.Phone,
		&b.Email,
		&b.Address,
		&category,
		&subtype,
		&reqDate,
		&reqTime,
		&note,
		&statusValue,
		&doctorName,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Gender = Gender(gender)
	b.ServiceCategory = ServiceCategory(category)
	b.Status = Status(statusValue)
	if dob.Valid {
		b.DateOfBirth = dob.Time.Format(DateFormat)
	}
	if subtype.Valid {
		b.ServiceSubtype = ServiceSubtype(subtype.String)
	}
	b.RequestedDate = reqDate.Format(DateFormat)
	if reqTime.Valid {
		b.RequestedTime = formatMicroseconds(reqTime.Microseconds)
	}
	if note.Valid {
		b.Note = note.String
	}
	if doctorName.Valid {
		b.DoctorName = doctorName.String
	}
	return &b, nil
}

func formatMicroseconds(micro int64) string {
	t := time.Unix(0, micro*int64(time.Microsecond)).UTC()
	return t.Format(TimeFormat)
}

func dateArg(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func timeArg(s string) (any, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return nil, err
	}
	micro := int64(t.Hour())*3600*1e6 + int64(t.Minute())*60*1e6
	return pgtype.Time{Microseconds: micro, Valid: true}, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
