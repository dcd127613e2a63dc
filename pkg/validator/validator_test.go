package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/pkg/validator"
)

type movimiento struct {
	ProductID string          `json:"product_id" validate:"required"`
	StockType string          `json:"stock_type" validate:"required,oneof='Stock In' 'Stock Out'"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"gte=0"`
}

func TestValidateStruct_Valido(t *testing.T) {
	errs := validator.ValidateStruct(movimiento{
		ProductID: "p1", StockType: "Stock In", Quantity: 3, UnitCost: decimal.RequireFromString("12.50"),
	})
	assert.Nil(t, errs)
}

func TestValidateStruct_UsaNombresJSON(t *testing.T) {
	errs := validator.ValidateStruct(movimiento{StockType: "Stock Sideways", Quantity: 0, UnitCost: decimal.NewFromInt(-1)})
	require.Len(t, errs, 4)

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, "required", fields["product_id"])
	assert.Equal(t, "oneof", fields["stock_type"])
	assert.Equal(t, "gt", fields["quantity"])
	assert.Equal(t, "gte", fields["unit_cost"])
}

func TestMessage(t *testing.T) {
	msg := validator.Message([]*validator.FieldError{
		{Field: "quantity", Tag: "gt", Param: "0"},
		{Field: "product_id", Tag: "required"},
	})
	assert.Equal(t, "quantity: gt=0; product_id: required", msg)
}
