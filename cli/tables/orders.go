package tables

import (
	"strconv"
	"time"

	"github.com/liora-cosmetic/liora/cli/api"
	"github.com/liora-cosmetic/liora/pkg/listctl"
)

var OrderStatuses = []string{
	api.OrderPending,
	api.OrderConfirmed,
	api.OrderShipping,
	api.OrderDelivered,
	api.OrderCancelled,
}

var PaymentMethods = []string{"COD", "BANK_TRANSFER", "MOMO", "VNPAY"}

func orderID(o api.Order) string { return o.ID }

// Orders is the admin order table.
func Orders(deps Deps) *Table[api.Order] {
	res := deps.Client.Orders
	loc := location(deps)
	return &Table[api.Order]{
		Name:     "orders",
		Title:    "Đơn hàng",
		Resource: res,
		ID:       orderID,
		Columns: []Column[api.Order]{
			{Key: "orderCode", Title: "Mã đơn", Width: 12, Sortable: true, Cell: func(o api.Order) string { return o.Code }},
			{Key: "customerName", Title: "Khách hàng", Width: 22, Sortable: true, Cell: func(o api.Order) string { return o.CustomerName }},
			{Key: "totalAmount", Title: "Tổng tiền", Width: 16, Sortable: true, Cell: func(o api.Order) string { return api.FormatMoney(o.Total) }},
			{Key: "status", Title: "Trạng thái", Width: 12, Sortable: true, Cell: func(o api.Order) string { return o.Status }},
			{Key: "paymentMethod", Title: "Thanh toán", Width: 14, Cell: func(o api.Order) string { return o.PaymentMethod }},
			{Key: "itemCount", Title: "SL", Width: 4, Sortable: true, Cell: func(o api.Order) string { return strconv.Itoa(o.ItemCount) }},
			{Key: "createdAt", Title: "Ngày tạo", Width: 17, Sortable: true, Cell: func(o api.Order) string { return formatTime(o.CreatedAt, loc) }},
		},
		Filters: []listctl.Filter[api.Order]{
			{Name: "status", Kind: listctl.FilterEnum, Options: OrderStatuses, Value: func(o api.Order) any { return o.Status }},
			{Name: "payment", Kind: listctl.FilterEnum, Options: PaymentMethods, Value: func(o api.Order) any { return o.PaymentMethod }},
			{Name: "price", Kind: listctl.FilterRange, Value: func(o api.Order) any { return o.Total }},
			{Name: "from", Kind: listctl.FilterDateFrom, Time: func(o api.Order) time.Time { return o.CreatedAt }},
			{Name: "to", Kind: listctl.FilterDateTo, Time: func(o api.Order) time.Time { return o.CreatedAt }},
		},
		Search: func(o api.Order, term string) bool {
			return listctl.ContainsFold(term, o.Code, o.CustomerName, o.CustomerEmail, o.Phone)
		},
		RowActions: []listctl.RowAction[api.Order]{
			viewAction(deps, res, orderID),
			verbAction(ActionCancel, api.VerbCancel, res, orderID, func(o api.Order) bool {
				return o.Status == api.OrderPending || o.Status == api.OrderConfirmed
			}),
		},
		BulkActions: []listctl.BulkAction{statusBulk(res, OrderStatuses)},
		BulkChoices: map[string][]string{BulkStatus: OrderStatuses},
	}
}
