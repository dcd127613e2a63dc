package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/assets"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	ledger "github.com/jhoicas/stock-ledger-api/internal/domain/stock"
)

// CreateMovementInput entrada para registrar un movimiento. Date cero usa la hora actual.
type CreateMovementInput struct {
	UserID      string
	ProductID   string
	StockType   string
	Quantity    int64
	UnitCost    decimal.Decimal
	Date        time.Time
	Description string
	Attachments []string
}

// AmendMovementInput entrada para corregir un movimiento existente.
// Date cero conserva la fecha guardada; Attachments nil conserva los adjuntos guardados.
type AmendMovementInput struct {
	UserID      string
	EntryID     string
	Quantity    int64
	UnitCost    decimal.Decimal
	Date        time.Time
	Description string
	Attachments []string
}

// MovementResult resultado de crear o corregir un movimiento.
type MovementResult struct {
	Entry   *entity.StockEntry
	Product *entity.Product
	Delta   int64
	State   ledger.MutationState
}

// DeleteResult resultado de eliminar un movimiento.
type DeleteResult struct {
	EntryID       string
	Product       *entity.Product
	Delta         int64
	State         ledger.MutationState
	AssetFailures []assets.Failure
}

// CreateMovement valida, bloquea el producto, inserta la entrada y ajusta la cantidad en una sola transacción.
func (e *Engine) CreateMovement(ctx context.Context, in CreateMovementInput) (*MovementResult, error) {
	if err := validateCreate(in); err != nil {
		e.logState(ledger.StateAborted, "create", in.ProductID, "", 0, err)
		return nil, err
	}
	e.logState(ledger.StateValidated, "create", in.ProductID, "", 0, nil)

	now := e.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	delta := ledger.SignedQuantity(in.StockType, in.Quantity)

	var res *MovementResult
	err := e.runTx(ctx, "create", func(entries repository.StockEntryRepository, products repository.ProductRepository) error {
		product, err := lockProduct(ctx, products, in.ProductID)
		if err != nil {
			return err
		}
		if _, err := ledger.Apply(product.Quantity, delta); err != nil {
			return err
		}
		entry := &entity.StockEntry{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			StockType:   in.StockType,
			Quantity:    in.Quantity,
			UnitCost:    in.UnitCost,
			Date:        date,
			Description: strings.TrimSpace(in.Description),
			Attachments: cleanRefs(in.Attachments),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := entries.Create(ctx, entry); err != nil {
			return err
		}
		qty, err := products.AdjustQuantity(ctx, product.ID, delta)
		if err != nil {
			return err
		}
		product.Quantity = qty
		res = &MovementResult{Entry: entry, Product: product, Delta: delta}
		return nil
	})
	if err != nil {
		e.logState(ledger.StateAborted, "create", in.ProductID, "", delta, err)
		return nil, err
	}
	res.State = ledger.StateApplied
	e.logState(res.State, "create", res.Product.ID, res.Entry.ID, delta, nil)
	e.afterCommit(ctx, Event{
		Action:    ActionCreated,
		ProductID: res.Product.ID,
		EntryID:   res.Entry.ID,
		Quantity:  res.Product.Quantity,
		Delta:     delta,
		UserID:    in.UserID,
	})
	return res, nil
}

// AmendMovement corrige cantidad, costo, fecha, descripción y adjuntos de una entrada,
// ajustando el producto por la diferencia. El tipo de movimiento no cambia.
func (e *Engine) AmendMovement(ctx context.Context, in AmendMovementInput) (*MovementResult, error) {
	if strings.TrimSpace(in.EntryID) == "" {
		err := fmt.Errorf("%w: entry_id es requerido", domain.ErrValidation)
		e.logState(ledger.StateAborted, "amend", "", in.EntryID, 0, err)
		return nil, err
	}
	if err := ledger.ValidateAmounts(in.Quantity, in.UnitCost); err != nil {
		e.logState(ledger.StateAborted, "amend", "", in.EntryID, 0, err)
		return nil, err
	}
	current, err := e.entryRepo.GetByID(ctx, in.EntryID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		err := fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, in.EntryID)
		e.logState(ledger.StateAborted, "amend", "", in.EntryID, 0, err)
		return nil, err
	}
	e.logState(ledger.StateValidated, "amend", current.ProductID, in.EntryID, 0, nil)

	var res *MovementResult
	err = e.runTx(ctx, "amend", func(entries repository.StockEntryRepository, products repository.ProductRepository) error {
		product, err := lockProduct(ctx, products, current.ProductID)
		if err != nil {
			return err
		}
		entry, err := lockEntry(ctx, entries, in.EntryID, product.ID)
		if err != nil {
			return err
		}
		delta := ledger.AmendDelta(entry.StockType, entry.Quantity, in.Quantity)
		if _, err := ledger.Apply(product.Quantity, delta); err != nil {
			return err
		}
		entry.Quantity = in.Quantity
		entry.UnitCost = in.UnitCost
		entry.Description = strings.TrimSpace(in.Description)
		if !in.Date.IsZero() {
			entry.Date = in.Date
		}
		if in.Attachments != nil {
			entry.Attachments = cleanRefs(in.Attachments)
		}
		entry.UpdatedAt = e.now()
		if err := entries.Update(ctx, entry); err != nil {
			return err
		}
		if delta != 0 {
			qty, err := products.AdjustQuantity(ctx, product.ID, delta)
			if err != nil {
				return err
			}
			product.Quantity = qty
		}
		res = &MovementResult{Entry: entry, Product: product, Delta: delta}
		return nil
	})
	if err != nil {
		e.logState(ledger.StateAborted, "amend", current.ProductID, in.EntryID, 0, err)
		return nil, err
	}
	res.State = ledger.StateApplied
	e.logState(res.State, "amend", res.Product.ID, res.Entry.ID, res.Delta, nil)
	e.afterCommit(ctx, Event{
		Action:    ActionAmended,
		ProductID: res.Product.ID,
		EntryID:   res.Entry.ID,
		Quantity:  res.Product.Quantity,
		Delta:     res.Delta,
		UserID:    in.UserID,
	})
	return res, nil
}

// DeleteMovement revierte el efecto de la entrada sobre el producto y la elimina.
// Tras el commit sus adjuntos se purgan en modo best-effort.
func (e *Engine) DeleteMovement(ctx context.Context, userID, entryID string) (*DeleteResult, error) {
	if strings.TrimSpace(entryID) == "" {
		return nil, fmt.Errorf("%w: entry_id es requerido", domain.ErrValidation)
	}
	current, err := e.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		err := fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, entryID)
		e.logState(ledger.StateAborted, "delete", "", entryID, 0, err)
		return nil, err
	}
	e.logState(ledger.StateValidated, "delete", current.ProductID, entryID, 0, nil)

	var (
		res  *DeleteResult
		refs []string
	)
	err = e.runTx(ctx, "delete", func(entries repository.StockEntryRepository, products repository.ProductRepository) error {
		product, err := lockProduct(ctx, products, current.ProductID)
		if err != nil {
			return err
		}
		entry, err := lockEntry(ctx, entries, entryID, product.ID)
		if err != nil {
			return err
		}
		delta := ledger.ReversalDelta(entry.StockType, entry.Quantity)
		if _, err := ledger.Apply(product.Quantity, delta); err != nil {
			return err
		}
		if err := entries.Delete(ctx, entry.ID); err != nil {
			return err
		}
		qty, err := products.AdjustQuantity(ctx, product.ID, delta)
		if err != nil {
			return err
		}
		product.Quantity = qty
		refs = entry.Attachments
		res = &DeleteResult{EntryID: entry.ID, Product: product, Delta: delta}
		return nil
	})
	if err != nil {
		e.logState(ledger.StateAborted, "delete", current.ProductID, entryID, 0, err)
		return nil, err
	}
	res.State = ledger.StateApplied
	e.logState(res.State, "delete", res.Product.ID, entryID, res.Delta, nil)
	if e.purger != nil && len(refs) > 0 {
		res.AssetFailures = e.purger.Purge(ctx, refs)
	}
	e.afterCommit(ctx, Event{
		Action:    ActionDeleted,
		ProductID: res.Product.ID,
		EntryID:   entryID,
		Quantity:  res.Product.Quantity,
		Delta:     res.Delta,
		UserID:    userID,
	})
	return res, nil
}

// ListMovements devuelve los movimientos de un producto, más recientes primero.
func (e *Engine) ListMovements(ctx context.Context, productID string) ([]*entity.StockEntry, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: product_id es requerido", domain.ErrValidation)
	}
	product, err := e.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return e.entryRepo.ListByProduct(ctx, productID)
}

func validateCreate(in CreateMovementInput) error {
	if strings.TrimSpace(in.ProductID) == "" {
		return fmt.Errorf("%w: product_id es requerido", domain.ErrValidation)
	}
	if !entity.ValidStockType(in.StockType) {
		return fmt.Errorf("%w: stock_type debe ser %q o %q", domain.ErrValidation, entity.StockTypeIn, entity.StockTypeOut)
	}
	return ledger.ValidateAmounts(in.Quantity, in.UnitCost)
}

func lockProduct(ctx context.Context, products repository.ProductRepository, id string) (*entity.Product, error) {
	product, err := products.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return product, nil
}

func lockEntry(ctx context.Context, entries repository.StockEntryRepository, id, productID string) (*entity.StockEntry, error) {
	entry, err := entries.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	// Borrada por otra mutación entre la lectura inicial y el bloqueo.
	if entry == nil || entry.ProductID != productID {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return entry, nil
}

func cleanRefs(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
