package converter

import (
	"math/big"
	"testing"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestFromRow(t *testing.T) {
	conv := NewProductConverterImpl()

	model, err := conv.FromRow(Row{
		ColumnID:          int64(3),
		ColumnName:        "Mesa",
		ColumnDescription: "Mesa de jantar",
		ColumnPrice:       pgtype.Numeric{Int: big.NewInt(129990), Exp: -2, Valid: true},
		ColumnImageURL:    "https://acc.blob.core.windows.net/produtos/abc_mesa.png",
	})
	if err != nil {
		t.Fatalf("FromRow: %v", err)
	}

	product := conv.ToEntity(model)
	if product.ID != 3 || product.Name != "Mesa" || product.Description != "Mesa de jantar" {
		t.Errorf("unexpected product: %+v", product)
	}
	if product.Price.StringFixed(2) != "1299.90" {
		t.Errorf("price = %s", product.Price.StringFixed(2))
	}
	if product.ImageURL != "https://acc.blob.core.windows.net/produtos/abc_mesa.png" {
		t.Errorf("image url = %q", product.ImageURL)
	}
}

func TestFromRowNullImageAndInt32ID(t *testing.T) {
	conv := NewProductConverterImpl()

	model, err := conv.FromRow(Row{
		ColumnID:          int32(1),
		ColumnName:        "Vaso",
		ColumnDescription: "",
		ColumnPrice:       "9",
		ColumnImageURL:    nil,
	})
	if err != nil {
		t.Fatalf("FromRow: %v", err)
	}
	if model.ImageURL != nil {
		t.Errorf("image url = %v, want nil", *model.ImageURL)
	}
	if got := conv.ToEntity(model); got.ImageURL != "" || got.ID != 1 {
		t.Errorf("unexpected product: %+v", got)
	}
}

func TestFromRowRejectsBadTypes(t *testing.T) {
	conv := NewProductConverterImpl()

	rows := []Row{
		{ColumnID: "1", ColumnName: "a", ColumnDescription: "b", ColumnPrice: "1"},
		{ColumnID: int64(1), ColumnName: 5, ColumnDescription: "b", ColumnPrice: "1"},
		{ColumnID: int64(1), ColumnName: "a", ColumnDescription: "b", ColumnPrice: true},
		{ColumnID: int64(1), ColumnName: "a", ColumnDescription: "b", ColumnPrice: pgtype.Numeric{NaN: true, Valid: true}},
	}

	for i, row := range rows {
		if _, err := conv.FromRow(row); err == nil {
			t.Errorf("row %d: expected error", i)
		}
	}
}

func TestToModelKeepsExactPrice(t *testing.T) {
	conv := NewProductConverterImpl()
	entity := domain.NewProduct("Cadeira", "Madeira", decimal.RequireFromString("149.90"), "")

	model := conv.ToModel(entity)
	if model.ImageURL != nil {
		t.Error("empty image url must map to NULL")
	}
	if !NumericToDecimal(model.Price).Equal(entity.Price) {
		t.Errorf("price round trip = %s", NumericToDecimal(model.Price))
	}
}
