package api

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Order status values as the admin API reports them
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderShipping  = "SHIPPING"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

const (
	ProductActive   = "ACTIVE"
	ProductInactive = "INACTIVE"
)

const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
	UserActive   = "ACTIVE"
	UserBanned   = "BANNED"
)

type Order struct {
	ID            string          `json:"id"`
	Code          string          `json:"orderCode"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Phone         string          `json:"phone"`
	Total         decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	ItemCount     int             `json:"itemCount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (o Order) SortKey(field string) any {
	switch field {
	case "id":
		return o.ID
	case "orderCode":
		return o.Code
	case "customerName":
		return o.CustomerName
	case "customerEmail":
		return o.CustomerEmail
	case "totalAmount":
		return o.Total
	case "status":
		return o.Status
	case "paymentMethod":
		return o.PaymentMethod
	case "itemCount":
		return o.ItemCount
	case "createdAt":
		return o.CreatedAt
	default:
		return nil
	}
}

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Brand     string          `json:"brand"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (p Product) SortKey(field string) any {
	switch field {
	case "id":
		return p.ID
	case "name":
		return p.Name
	case "sku":
		return p.SKU
	case "brand":
		return p.Brand
	case "category":
		return p.Category
	case "price":
		return p.Price
	case "stock":
		return p.Stock
	case "status":
		return p.Status
	case "createdAt":
		return p.CreatedAt
	default:
		return nil
	}
}

type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Banned() bool {
	return strings.EqualFold(u.Status, UserBanned)
}

func (u User) SortKey(field string) any {
	switch field {
	case "id":
		return u.ID
	case "fullName":
		return u.FullName
	case "email":
		return u.Email
	case "phone":
		return u.Phone
	case "role":
		return u.Role
	case "status":
		return u.Status
	case "createdAt":
		return u.CreatedAt
	default:
		return nil
	}
}

func decodeOrder(r gjson.Result, loc *time.Location) Order {
	return Order{
		ID:            r.Get("id").String(),
		Code:          firstOf(r, "orderCode", "code").String(),
		CustomerName:  firstOf(r, "customerName", "customer.fullName", "fullName").String(),
		CustomerEmail: firstOf(r, "customerEmail", "customer.email", "email").String(),
		Phone:         firstOf(r, "phone", "customer.phone").String(),
		Total:         decimalOf(firstOf(r, "totalAmount", "total")),
		Status:        strings.ToUpper(r.Get("status").String()),
		PaymentMethod: r.Get("paymentMethod").String(),
		ItemCount:     itemCount(r),
		CreatedAt:     timeOf(firstOf(r, "createdAt", "orderDate"), loc),
	}
}

func itemCount(r gjson.Result) int {
	if v := r.Get("itemCount"); v.Exists() {
		return int(v.Int())
	}
	if items := firstOf(r, "items", "orderItems"); items.IsArray() {
		return len(items.Array())
	}
	return 0
}

func decodeProduct(r gjson.Result, loc *time.Location) Product {
	return Product{
		ID:        r.Get("id").String(),
		Name:      r.Get("name").String(),
		SKU:       r.Get("sku").String(),
		Brand:     firstOf(r, "brand.name", "brand").String(),
		Category:  firstOf(r, "category.name", "category").String(),
		Price:     decimalOf(r.Get("price")),
		Stock:     int(firstOf(r, "stock", "stockQuantity", "quantity").Int()),
		Status:    strings.ToUpper(r.Get("status").String()),
		CreatedAt: timeOf(r.Get("createdAt"), loc),
	}
}

func decodeUser(r gjson.Result, loc *time.Location) User {
	status := strings.ToUpper(r.Get("status").String())
	if status == "" {
		status = UserActive
		if r.Get("banned").Bool() || (r.Get("enabled").Exists() && !r.Get("enabled").Bool()) {
			status = UserBanned
		}
	}
	return User{
		ID:        r.Get("id").String(),
		FullName:  firstOf(r, "fullName", "name", "username").String(),
		Email:     r.Get("email").String(),
		Phone:     r.Get("phone").String(),
		Role:      strings.ToUpper(strings.TrimPrefix(r.Get("role").String(), "ROLE_")),
		Status:    status,
		CreatedAt: timeOf(r.Get("createdAt"), loc),
	}
}

// firstOf returns the first path present in r
func firstOf(r gjson.Result, paths ...string) gjson.Result {
	for _, path := range paths {
		if v := r.Get(path); v.Exists() && v.Type != gjson.Null {
			if v.IsObject() {
				continue
			}
			return v
		}
	}
	return gjson.Result{}
}

func decimalOf(r gjson.Result) decimal.Decimal {
	var raw string
	switch r.Type {
	case gjson.Number:
		raw = r.Raw
	case gjson.String:
		raw = strings.TrimSpace(r.Str)
	default:
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timeOf reads ISO strings, epoch milliseconds or Jackson's
// [y, m, d, h, min, s, nanos] arrays. Zone-less values are read in loc.
func timeOf(r gjson.Result, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	switch {
	case r.Type == gjson.String:
		for _, layout := range timestampLayouts {
			if t, err := time.ParseInLocation(layout, r.Str, loc); err == nil {
				return t
			}
		}
	case r.Type == gjson.Number:
		return time.UnixMilli(r.Int()).In(loc)
	case r.IsArray():
		parts := r.Array()
		field := func(i, def int) int {
			if i < len(parts) {
				return int(parts[i].Int())
			}
			return def
		}
		if len(parts) >= 3 {
			return time.Date(field(0, 0), time.Month(field(1, 1)), field(2, 1),
				field(3, 0), field(4, 0), field(5, 0), field(6, 0), loc)
		}
	}
	return time.Time{}
}

// FormatMoney renders an amount in đồng with dot thousand separators
func FormatMoney(d decimal.Decimal) string {
	digits := d.Abs().StringFixed(0)
	var b strings.Builder
	if d.Sign() < 0 && digits != "0" {
		b.WriteByte('-')
	}
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	b.WriteString(" ₫")
	return b.String()
}
