package repository

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("registro duplicado")

// ErrStaleStatus is returned when a status update finds the row already moved
// away from the expected status.
var ErrStaleStatus = errors.New("el estado cambió mientras se actualizaba")

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Filter returns a trimmed filter value, or "" when absent.
func (q *ListQuery) Filter(key string) string {
	if q.Filters == nil {
		return ""
	}
	return strings.TrimSpace(q.Filters[key])
}

// FilterUint parses a numeric filter.
func (q *ListQuery) FilterUint(key string) (uint, bool) {
	v, err := strconv.ParseUint(q.Filter(key), 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// FilterDate parses a YYYY-MM-DD filter.
func (q *ListQuery) FilterDate(key string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", q.Filter(key))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// applySort orders by SortBy when it is one of the allowed columns
// (API name → SQL column), else by fallback.
func applySort(db *gorm.DB, q *ListQuery, allowed map[string]string, fallback string) *gorm.DB {
	column, ok := allowed[q.SortBy]
	if !ok {
		return db.Order(fallback)
	}
	if strings.EqualFold(q.SortDir, "desc") {
		return db.Order(column + " DESC")
	}
	return db.Order(column + " ASC")
}

// paginate applies offset/limit when PerPage is set.
func paginate(db *gorm.DB, q *ListQuery) *gorm.DB {
	if q.PerPage <= 0 {
		return db
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return db.Offset((page - 1) * q.PerPage).Limit(q.PerPage)
}

// applyDateRange filters column by the start_date / end_date filters (inclusive days).
func applyDateRange(db *gorm.DB, q *ListQuery, column string) *gorm.DB {
	if start, ok := q.FilterDate("start_date"); ok {
		db = db.Where(column+" >= ?", start)
	}
	if end, ok := q.FilterDate("end_date"); ok {
		db = db.Where(column+" < ?", end.AddDate(0, 0, 1))
	}
	return db
}

func isDuplicateKeyError(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// translateWriteError maps constraint violations to ErrDuplicate with a readable message.
func translateWriteError(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}
	constraint, ok := isDuplicateKeyError(err)
	if !ok {
		return err
	}
	if msg, found := messages[constraint]; found {
		return &DuplicateError{Message: msg}
	}
	return &DuplicateError{Message: "Ya existe un registro con estos datos"}
}

// DuplicateError carries the user-facing message of a unique violation.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }
