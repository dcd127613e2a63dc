package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger (valores persistidos tal cual).
const (
	StockTypeIn  = "Stock In"  // entrada
	StockTypeOut = "Stock Out" // salida
)

// ValidStockType indica si t es uno de los tipos de movimiento admitidos.
func ValidStockType(t string) bool {
	return t == StockTypeIn || t == StockTypeOut
}

// StockEntry es un movimiento del ledger. ID, ProductID y StockType son inmutables tras la creación.
type StockEntry struct {
	ID          string
	ProductID   string
	StockType   string
	Quantity    int64           // > 0
	UnitCost    decimal.Decimal // > 0
	Date        time.Time
	Description string
	Attachments []string // URLs de assets, en orden
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
