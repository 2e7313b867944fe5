package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// translate maps a gorm/driver error onto the application error kinds
func translate(op, resource, conflictMessage string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(resource)
	}
	if isUniqueViolation(err) && conflictMessage != "" {
		return apperror.Conflict(conflictMessage, err)
	}
	return apperror.Storage(op, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// validUUID reports whether id can match a uuid column. Anything else cannot exist.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
