// Package repository holds the persistence contracts used by the services together with
// their gorm implementations.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("repository: duplicate")
	// ErrNotPending is returned when a compare-and-set transition finds the invitation
	// already out of the pending state.
	ErrNotPending = errors.New("repository: invitation is not pending")
)

// Store bundles every repository backed by one database handle.
type Store struct {
	Candidates  CandidateRepository
	Assignments AssignmentRepository
	Conflicts   ConflictRepository
	Manuscripts ManuscriptRepository
	Editors     EditorRepository
	Invitations InvitationRepository
	Dispatches  DispatchRepository
}

// NewStore wires the gorm implementations against db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Candidates:  NewCandidateRepository(db),
		Assignments: NewAssignmentRepository(db),
		Conflicts:   NewConflictRepository(db),
		Manuscripts: NewManuscriptRepository(db),
		Editors:     NewEditorRepository(db),
		Invitations: NewInvitationRepository(db),
		Dispatches:  NewDispatchRepository(db),
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isUniqueConstraintError(err):
		return ErrDuplicate
	default:
		return err
	}
}

// isUniqueConstraintError detects database uniqueness constraint violations across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique constraint") ||
		strings.Contains(lower, "duplicate")
}
