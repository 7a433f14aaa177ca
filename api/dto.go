/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  Field names follow the wire format the café clients already speak
  (camelCase: totalCredit, amountPaid, paymentStatus).

AMOUNTS:
  Monetary values cross the wire as JSON numbers. The domain keeps
  decimal.Decimal; conversion happens only at this boundary.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/cafekhata/credit-engine/ledger"
	"github.com/cafekhata/credit-engine/reports"
)

// =============================================================================
// CUSTOMERS
// =============================================================================

// CustomerDTO represents a customer in API responses.
type CustomerDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email,omitempty"`
	TotalCredit float64 `json:"totalCredit"`
	IsRedListed bool    `json:"isRedListed"`
	LastVisit   *string `json:"lastVisit,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toCustomerDTO(c ledger.Customer) CustomerDTO {
	dto := CustomerDTO{
		ID:          c.ID,
		Name:        c.Name,
		Phone:       c.Phone,
		Email:       c.Email,
		TotalCredit: c.TotalCredit.InexactFloat64(),
		IsRedListed: c.IsRedListed,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
	if c.LastVisit != nil {
		v := c.LastVisit.Format(time.RFC3339)
		dto.LastVisit = &v
	}
	return dto
}

// CustomerRequest is the request to create or update a customer.
type CustomerRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	IsRedListed bool   `json:"isRedListed"`
}

// =============================================================================
// MENU ITEMS
// =============================================================================

// MenuItemDTO represents a menu item in API responses.
type MenuItemDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	IsAvailable bool    `json:"isAvailable"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toMenuItemDTO(item ledger.MenuItem) MenuItemDTO {
	return MenuItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price.InexactFloat64(),
		Category:    item.Category,
		IsAvailable: item.IsAvailable,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}

// MenuItemRequest is the request to create or update a menu item.
type MenuItemRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// LineItemDTO is one snapshot line of an order.
type LineItemDTO struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// TransactionDTO represents a transaction in API responses. CustomerName is
// populated from the directory for display.
type TransactionDTO struct {
	ID            string        `json:"id"`
	CustomerID    string        `json:"customerId"`
	CustomerName  string        `json:"customerName,omitempty"`
	Kind          string        `json:"kind"`
	Items         []LineItemDTO `json:"items"`
	Total         float64       `json:"total"`
	AmountPaid    float64       `json:"amountPaid"`
	PaymentMethod string        `json:"paymentMethod"`
	PaymentStatus string        `json:"paymentStatus"`
	CreatedAt     string        `json:"createdAt"`
}

func toTransactionDTO(t ledger.Transaction, customerName string) TransactionDTO {
	items := make([]LineItemDTO, len(t.Lines))
	for i, l := range t.Lines {
		items[i] = LineItemDTO{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Price:    l.Price.InexactFloat64(),
			Quantity: l.Quantity,
		}
	}
	return TransactionDTO{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		CustomerName:  customerName,
		Kind:          string(t.Kind),
		Items:         items,
		Total:         t.Total.InexactFloat64(),
		AmountPaid:    t.AmountPaid.InexactFloat64(),
		PaymentMethod: string(t.Method),
		PaymentStatus: string(t.Status),
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}

// looseQuantity tolerates numbers and numeric strings. Unparsable input
// decodes to zero, which the Ledger Core treats as 1.
type looseQuantity int

func (q *looseQuantity) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		*q = 0
		return nil
	}
	*q = looseQuantity(n)
	return nil
}

// OrderLineRequest is one requested order line.
type OrderLineRequest struct {
	ItemID   string        `json:"itemId"`
	Quantity looseQuantity `json:"quantity"`
}

// CreateTransactionRequest is the request to create an order transaction.
type CreateTransactionRequest struct {
	CustomerID    string             `json:"customerId"`
	Items         []OrderLineRequest `json:"items"`
	AmountPaid    float64            `json:"amountPaid"`
	PaymentMethod string             `json:"paymentMethod"`
}

// PaymentRequest is the request body for both settlement endpoints.
type PaymentRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
}

// TransactionListDTO is one page of the filtered listing.
type TransactionListDTO struct {
	Transactions      []TransactionDTO `json:"transactions"`
	Page              int              `json:"page"`
	TotalPages        int              `json:"totalPages"`
	TotalTransactions int              `json:"totalTransactions"`
}

// SettlementDTO is the response to a standalone payment.
type SettlementDTO struct {
	Message         string         `json:"message"`
	Customer        CustomerDTO    `json:"customer"`
	Transaction     TransactionDTO `json:"transaction"`
	PaymentAmount   float64        `json:"paymentAmount"`
	RemainingCredit float64        `json:"remainingCredit"`
}

// TransactionPaymentDTO is the response to a payment against one transaction.
type TransactionPaymentDTO struct {
	Message       string         `json:"message"`
	Transaction   TransactionDTO `json:"transaction"`
	PaymentAmount float64        `json:"paymentAmount"`
}

// =============================================================================
// DASHBOARD & REPORTS
// =============================================================================

// ItemSalesDTO is one line-item group in dashboards and reports.
type ItemSalesDTO struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

func toItemSalesDTOs(groups []reports.ItemSales) []ItemSalesDTO {
	out := make([]ItemSalesDTO, len(groups))
	for i, g := range groups {
		out[i] = ItemSalesDTO{Name: g.Name, Count: g.Count, Total: g.Revenue.InexactFloat64()}
	}
	return out
}

// DashboardDTO is the daily summary response.
type DashboardDTO struct {
	TodaySales         float64          `json:"todaySales"`
	TotalCustomers     int              `json:"totalCustomers"`
	TotalMenuItems     int              `json:"totalMenuItems"`
	PendingCredits     float64          `json:"pendingCredits"`
	CashPayments       float64          `json:"cashPayments"`
	UPIPayments        float64          `json:"upiPayments"`
	PopularItems       []ItemSalesDTO   `json:"popularItems"`
	RecentTransactions []TransactionDTO `json:"recentTransactions"`
}

// MonthlySalesDTO is one calendar-month row of the range report.
type MonthlySalesDTO struct {
	Month       string  `json:"month"`
	Total       float64 `json:"total"`
	CashTotal   float64 `json:"cashTotal"`
	UPITotal    float64 `json:"upiTotal"`
	CreditTotal float64 `json:"creditTotal"`
}

// CategorySalesDTO is one category row of the range report.
type CategorySalesDTO struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MethodTotalDTO is one payment-method row of the range report.
type MethodTotalDTO struct {
	Method string  `json:"method"`
	Total  float64 `json:"total"`
}

// ReportDTO is the range report response.
type ReportDTO struct {
	MonthlySales         []MonthlySalesDTO  `json:"monthlySales"`
	CategoryBreakdown    []CategorySalesDTO `json:"categoryBreakdown"`
	TopItems             []ItemSalesDTO     `json:"topItems"`
	PaymentMethodSummary []MethodTotalDTO   `json:"paymentMethodSummary"`
}

func toReportDTO(r *reports.RangeReport) ReportDTO {
	dto := ReportDTO{
		MonthlySales:         make([]MonthlySalesDTO, len(r.MonthlySales)),
		CategoryBreakdown:    make([]CategorySalesDTO, len(r.CategoryBreakdown)),
		TopItems:             toItemSalesDTOs(r.TopItems),
		PaymentMethodSummary: make([]MethodTotalDTO, len(r.PaymentMethodSummary)),
	}
	for i, row := range r.MonthlySales {
		dto.MonthlySales[i] = MonthlySalesDTO{
			Month:       row.Month,
			Total:       row.Total.InexactFloat64(),
			CashTotal:   row.CashTotal.InexactFloat64(),
			UPITotal:    row.UPITotal.InexactFloat64(),
			CreditTotal: row.CreditTotal.InexactFloat64(),
		}
	}
	for i, row := range r.CategoryBreakdown {
		dto.CategoryBreakdown[i] = CategorySalesDTO{Category: row.Category, Total: row.Total.InexactFloat64()}
	}
	for i, row := range r.PaymentMethodSummary {
		dto.PaymentMethodSummary[i] = MethodTotalDTO{Method: string(row.Method), Total: row.Total.InexactFloat64()}
	}
	return dto
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
