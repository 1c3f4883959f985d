package tables

import (
	"context"
	"strconv"
	"strings"

	"github.com/liora-cosmetic/liora/cli/api"
	"github.com/liora-cosmetic/liora/pkg/listctl"
)

// LowStockThreshold is the largest stock still reported as low
const LowStockThreshold = 10

var ProductStatuses = []string{api.ProductActive, api.ProductInactive}

// Stock filter values
const (
	StockOut = "out"
	StockLow = "low"
	StockIn  = "in"
)

func productID(p api.Product) string { return p.ID }

// Products is the admin product table.
func Products(deps Deps) *Table[api.Product] {
	res := deps.Client.Products
	return &Table[api.Product]{
		Name:     "products",
		Title:    "Sản phẩm",
		Resource: res,
		ID:       productID,
		Columns: []Column[api.Product]{
			{Key: "name", Title: "Tên sản phẩm", Width: 28, Sortable: true, Cell: func(p api.Product) string { return p.Name }},
			{Key: "sku", Title: "SKU", Width: 12, Sortable: true, Cell: func(p api.Product) string { return p.SKU }},
			{Key: "brand", Title: "Thương hiệu", Width: 14, Sortable: true, Cell: func(p api.Product) string { return p.Brand }},
			{Key: "category", Title: "Danh mục", Width: 14, Sortable: true, Cell: func(p api.Product) string { return p.Category }},
			{Key: "price", Title: "Giá", Width: 14, Sortable: true, Cell: func(p api.Product) string { return api.FormatMoney(p.Price) }},
			{Key: "stock", Title: "Tồn kho", Width: 8, Sortable: true, Cell: func(p api.Product) string { return strconv.Itoa(p.Stock) }},
			{Key: "status", Title: "Trạng thái", Width: 10, Sortable: true, Cell: func(p api.Product) string { return p.Status }},
		},
		Filters: []listctl.Filter[api.Product]{
			{Name: "category", Kind: listctl.FilterText, Value: func(p api.Product) any { return p.Category }},
			{Name: "brand", Kind: listctl.FilterText, Value: func(p api.Product) any { return p.Brand }},
			{Name: "status", Kind: listctl.FilterEnum, Options: ProductStatuses, Value: func(p api.Product) any { return p.Status }},
			{Name: "price", Kind: listctl.FilterRange, Value: func(p api.Product) any { return p.Price }},
			{
				Name:    "stock",
				Kind:    listctl.FilterCustom,
				Options: []string{StockOut, StockLow, StockIn},
				Match:   matchStock,
			},
		},
		Search: func(p api.Product, term string) bool {
			return listctl.ContainsFold(term, p.Name, p.SKU, p.Brand, p.Category)
		},
		RowActions: []listctl.RowAction[api.Product]{
			viewAction(deps, res, productID),
			{
				Name: ActionEdit,
				Handler: func(_ context.Context, p api.Product) error {
					deps.show("edit "+p.Name, res.EditRoute(p.ID))
					return nil
				},
			},
			{
				Name:   ActionDelete,
				Reload: true,
				Handler: func(ctx context.Context, p api.Product) error {
					return res.Delete(ctx, p.ID)
				},
			},
		},
		BulkActions: []listctl.BulkAction{statusBulk(res, ProductStatuses)},
		BulkChoices: map[string][]string{BulkStatus: ProductStatuses},
	}
}

// matchStock keeps every product for unknown values
func matchStock(p api.Product, value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case StockOut:
		return p.Stock <= 0
	case StockLow:
		return p.Stock > 0 && p.Stock <= LowStockThreshold
	case StockIn:
		return p.Stock > 0
	default:
		return true
	}
}
