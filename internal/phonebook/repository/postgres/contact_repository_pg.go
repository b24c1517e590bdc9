package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phoneboox/phoneboox/internal/phonebook/domain"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it too, which keeps the repository testable without a live database.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// sortColumns whitelists sortBy keys against column names. Anything not
// listed falls back to name.
var sortColumns = map[string]string{
	"name":          "name",
	"createdAt":     "created_at",
	"lastContacted": "last_contacted",
	"number":        "number",
	"email":         "email",
}

const contactColumns = "id, name, number, email, notes, tags, favourite, blocked, last_contacted, created_at, updated_at"

type PgContactRepository struct {
	db     DB
	logger *slog.Logger
}

func NewPgContactRepository(db DB, logger *slog.Logger) *PgContactRepository {
	return &PgContactRepository{db: db, logger: logger.With("component", "contact_repository_pg")}
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ID, &c.Name, &c.Number, &c.Email, &c.Notes, &c.Tags,
		&c.Favourite, &c.Blocked, &c.LastContacted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PgContactRepository) Create(ctx context.Context, ct *domain.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		ct.ID, ct.Name, ct.Number, ct.Email, ct.Notes, ct.Tags,
		ct.Favourite, ct.Blocked, ct.LastContacted, ct.CreatedAt, ct.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Duplicate contact number or email", "error", err, "number", ct.Number)
			return domain.ErrDuplicateEntry
		}
		r.logger.ErrorContext(ctx, "Error creating contact", "error", err, "contact_id", ct.ID)
		return err
	}
	r.logger.InfoContext(ctx, "Contact created", "contact_id", ct.ID)
	return nil
}

func (r *PgContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	ct, err := scanContact(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting contact by ID", "error", err, "contact_id", id)
		return nil, err
	}
	return ct, nil
}

// buildListFilter assembles the WHERE clause shared by List and Count.
// Returns the clause (possibly empty) and its positional arguments.
func buildListFilter(q domain.ListQuery) (string, []any) {
	var conds []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Favourite != nil {
		conds = append(conds, "favourite = "+next(*q.Favourite))
	}
	if q.Blocked != nil {
		conds = append(conds, "blocked = "+next(*q.Blocked))
	}
	if q.Search != "" {
		p := next("%" + q.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR number ILIKE %s OR email ILIKE %s)", p, p, p))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PgContactRepository) List(ctx context.Context, q domain.ListQuery) ([]*domain.Contact, error) {
	where, args := buildListFilter(q)

	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "name"
	}
	dir := "ASC"
	if q.SortOrder == domain.SortDesc {
		dir = "DESC"
	}

	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(
		"SELECT %s FROM contacts%s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d",
		contactColumns, where, col, dir, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing contacts", "error", err)
		return nil, err
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		ct, err := scanContact(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error scanning contact row", "error", err)
			return nil, err
		}
		contacts = append(contacts, ct)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating contact rows", "error", err)
		return nil, err
	}
	return contacts, nil
}

func (r *PgContactRepository) Count(ctx context.Context, q domain.ListQuery) (int64, error) {
	where, args := buildListFilter(q)
	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM contacts"+where, args...).Scan(&total)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error counting contacts", "error", err)
		return 0, err
	}
	return total, nil
}

func (r *PgContactRepository) Update(ctx context.Context, ct *domain.Contact) error {
	query := `
		UPDATE contacts
		SET name = $1, number = $2, email = $3, notes = $4, tags = $5,
		    favourite = $6, blocked = $7, last_contacted = $8, updated_at = $9
		WHERE id = $10
	`
	ct.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, query,
		ct.Name, ct.Number, ct.Email, ct.Notes, ct.Tags,
		ct.Favourite, ct.Blocked, ct.LastContacted, ct.UpdatedAt, ct.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Duplicate contact number or email on update", "error", err, "contact_id", ct.ID)
			return domain.ErrDuplicateEntry
		}
		r.logger.ErrorContext(ctx, "Error updating contact", "error", err, "contact_id", ct.ID)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Contact updated", "contact_id", ct.ID)
	return nil
}

func (r *PgContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting contact", "error", err, "contact_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.InfoContext(ctx, "Contact deleted", "contact_id", id)
	return nil
}

func (r *PgContactRepository) FindByNumberOrEmail(ctx context.Context, number, email string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE number = $1 OR (email <> '' AND email = $2) LIMIT 1`
	ct, err := scanContact(r.db.QueryRow(ctx, query, number, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Error finding contact by number or email", "error", err, "number", number)
		return nil, err
	}
	return ct, nil
}
