package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

func TestMapPgError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"email duplicado", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, domain.ErrEmailAlreadyExists},
		{"orden duplicado", &pgconn.PgError{Code: "23505", ConstraintName: "products_category_sort_order_key"}, domain.ErrDuplicate},
		{"cantidad negativa", &pgconn.PgError{Code: "23514", ConstraintName: "products_quantity_non_negative"}, domain.ErrNegativeStock},
		{"check genérico", &pgconn.PgError{Code: "23514", ConstraintName: "stock_entries_quantity_check"}, domain.ErrValidation},
		{"fk", &pgconn.PgError{Code: "23503"}, domain.ErrNotFound},
		{"serialización", &pgconn.PgError{Code: "40001"}, domain.ErrConflict},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrConflict},
		{"lock timeout envuelto", fmt.Errorf("update: %w", &pgconn.PgError{Code: "55P03"}), domain.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapPgError(tc.err), tc.want)
		})
	}
}

func TestMapPgError_SinCambios(t *testing.T) {
	assert.NoError(t, mapPgError(nil))
	plain := errors.New("conexión rechazada")
	assert.Same(t, plain, mapPgError(plain))
	other := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, error(other), mapPgError(other))
}
