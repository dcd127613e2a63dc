package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeForeignKeyViolation  = "23503"
	codeInvalidText          = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

const (
	constraintUsersEmail       = "users_email_key"
	constraintProductsQuantity = "products_quantity_non_negative"
)

// mapPgError traduce errores de PostgreSQL a errores de dominio; el resto pasa sin cambios.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		if pgErr.ConstraintName == constraintUsersEmail {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)
	case codeCheckViolation:
		if pgErr.ConstraintName == constraintProductsQuantity {
			return fmt.Errorf("%w: %s", domain.ErrNegativeStock, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ConstraintName)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, pgErr.ConstraintName)
	case codeInvalidText:
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
	}
	return err
}
