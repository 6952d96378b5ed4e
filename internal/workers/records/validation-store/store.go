// internal/workers/records/validation-store/store.go
package validationstore

import (
	"context"
	"errors"
	"fmt"

	apperrors "idea-validator/internal/common/errors"
	"idea-validator/internal/models"
)

const TaskType = "validation-store"

var (
	ErrStoreUnavailable = errors.New("STORE_UNAVAILABLE")
	ErrNotFound         = errors.New("NOT_FOUND")
	ErrForbidden        = errors.New("FORBIDDEN")
)

// Store persists validation records per owner. Records are write-once.
type Store interface {
	// Create inserts a record and returns its id. Duplicate titles are allowed.
	Create(ctx context.Context, userID string, form models.IdeaForm, report models.ValidationReport, overallScore int) (string, error)
	// List returns the owner's records newest first; never nil.
	List(ctx context.Context, userID string) ([]models.ValidationRecord, error)
	Get(ctx context.Context, userID, recordID string) (*models.ValidationRecord, error)
	Count(ctx context.Context, userID string) (int, error)
	// Delete removes a record owned by userID. A record owned by someone else is left intact.
	Delete(ctx context.Context, userID, recordID string) error
	Ping(ctx context.Context) error
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, apperrors.NewStoreUnavailableError(op, err))
}

func notFound(recordID string) error {
	return fmt.Errorf("%w: %w", ErrNotFound, apperrors.NewNotFoundError(recordID))
}

func forbidden(recordID string) error {
	return fmt.Errorf("%w: %w", ErrForbidden, apperrors.NewForbiddenError(recordID))
}
