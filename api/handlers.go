/*
handlers.go - HTTP API handlers for the credit ledger service

PURPOSE:
  Exposes the Ledger Core and Report Aggregator via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Customers:
    GET    /api/customers                     List customers
    POST   /api/customers                     Create customer
    GET    /api/customers/{id}                Get customer
    PUT    /api/customers/{id}                Update customer
    DELETE /api/customers/{id}                Delete (blocked by history)
    PATCH  /api/customers/{id}/toggle-redlist Flip advisory flag
    POST   /api/customers/{id}/payment        Settle aggregate credit
    GET    /api/customers/{id}/transactions   Customer history

  Menu:
    GET/POST /api/menu, GET/PUT/DELETE /api/menu/{id}
    PATCH    /api/menu/{id}/toggle-availability

  Transactions:
    GET    /api/transactions                  Paginated/filtered listing
    POST   /api/transactions                  Create order
    GET    /api/transactions/{id}             Get one
    PATCH  /api/transactions/{id}/payment     Settle one transaction

  Reports:
    GET    /api/dashboard                     Daily summary
    GET    /api/reports                       Range report

ERROR HANDLING:
  Domain errors map to HTTP status via the ledger classifiers:
  - 400: invalid input, business-rule rejection
  - 404: customer/item/transaction absent
  - 409: duplicate phone or item name
  - 500: persistence failure (no internal detail crosses the boundary)

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/cafekhata/credit-engine/ledger"
	"github.com/cafekhata/credit-engine/reports"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Core    *ledger.Core
	Reports *reports.Aggregator
}

// NewHandler creates a handler over the ledger core and report aggregator.
func NewHandler(core *ledger.Core, agg *reports.Aggregator) *Handler {
	return &Handler{Core: core, Reports: agg}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the ledger error taxonomy to status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsInvalid(err), ledger.IsRejected(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case ledger.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error(), nil)
	default:
		// Internal failures stay opaque to callers.
		writeError(w, http.StatusInternalServerError, "Server error", nil)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// parseDateParam accepts ISO dates with or without a time component.
func parseDateParam(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// customerNames resolves display names for a batch of transactions.
func (h *Handler) customerNames(ctx context.Context, txs []ledger.Transaction) map[string]string {
	names := make(map[string]string)
	for _, t := range txs {
		if _, ok := names[t.CustomerID]; ok {
			continue
		}
		if c, err := h.Core.GetCustomer(ctx, t.CustomerID); err == nil {
			names[t.CustomerID] = c.Name
		}
	}
	return names
}

func (h *Handler) toTransactionDTOs(ctx context.Context, txs []ledger.Transaction) []TransactionDTO {
	names := h.customerNames(ctx, txs)
	out := make([]TransactionDTO, len(txs))
	for i, t := range txs {
		out[i] = toTransactionDTO(t, names[t.CustomerID])
	}
	return out
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

// ListCustomers returns all customers sorted by name.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Core.ListCustomers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = toCustomerDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCustomer registers a new customer.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	customer, err := h.Core.CreateCustomer(r.Context(), ledger.CustomerInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerDTO(*customer))
}

// GetCustomer returns a single customer.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.Core.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerDTO(*customer))
}

// UpdateCustomer edits name/phone/email and the red-list flag.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	customer, err := h.Core.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), ledger.CustomerInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	}, req.IsRedListed)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerDTO(*customer))
}

// DeleteCustomer removes a customer with no transaction history.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.Core.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted successfully"})
}

// ToggleRedList flips the advisory red-list flag.
func (h *Handler) ToggleRedList(w http.ResponseWriter, r *http.Request) {
	customer, err := h.Core.ToggleRedList(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerDTO(*customer))
}

// RecordCustomerPayment settles part or all of a customer's aggregate credit.
func (h *Handler) RecordCustomerPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	method, err := ledger.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.Core.RecordStandalonePayment(r.Context(), id, decimal.NewFromFloat(req.Amount), method)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	customer, err := h.Core.GetCustomer(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SettlementDTO{
		Message:         "Payment recorded successfully",
		Customer:        toCustomerDTO(*customer),
		Transaction:     toTransactionDTO(result.Transaction, customer.Name),
		PaymentAmount:   result.ActualPayment.InexactFloat64(),
		RemainingCredit: result.RemainingCredit.InexactFloat64(),
	})
}

// CustomerTransactions returns a customer's history, newest first.
func (h *Handler) CustomerTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Core.CustomerTransactions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toTransactionDTOs(r.Context(), txs))
}

// =============================================================================
// MENU HANDLERS
// =============================================================================

// ListMenuItems returns the catalog sorted by category, then name.
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Core.ListItems(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]MenuItemDTO, len(items))
	for i, item := range items {
		dtos[i] = toMenuItemDTO(item)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateMenuItem adds a catalog entry.
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req MenuItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.Core.CreateItem(r.Context(), ledger.ItemInput{
		Name:        req.Name,
		Price:       decimal.NewFromFloat(req.Price),
		Category:    req.Category,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemDTO(*item))
}

// GetMenuItem returns a single catalog entry.
func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Core.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemDTO(*item))
}

// UpdateMenuItem edits a catalog entry. Existing orders keep their snapshots.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req MenuItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.Core.UpdateItem(r.Context(), chi.URLParam(r, "id"), ledger.ItemInput{
		Name:        req.Name,
		Price:       decimal.NewFromFloat(req.Price),
		Category:    req.Category,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemDTO(*item))
}

// DeleteMenuItem removes a catalog entry.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Core.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Menu item deleted successfully"})
}

// ToggleAvailability flips a catalog entry's availability.
func (h *Handler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	item, err := h.Core.ToggleAvailability(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemDTO(*item))
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListTransactions returns a filtered, paginated listing, newest first.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := ledger.TransactionFilter{Search: query.Get("search")}

	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.PerPage, _ = strconv.Atoi(query.Get("limit"))

	if s := query.Get("startDate"); s != "" {
		t, ok := parseDateParam(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid startDate", nil)
			return
		}
		filter.From = &t
	}
	if s := query.Get("endDate"); s != "" {
		t, ok := parseDateParam(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid endDate", nil)
			return
		}
		// Inclusive through the end of the day.
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &end
	}

	status, err := ledger.ParsePaymentStatus(query.Get("paymentStatus"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	filter.Status = status

	method, err := ledger.ParsePaymentMethod(query.Get("paymentMethod"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	filter.Method = method

	page, err := h.Core.ListTransactions(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TransactionListDTO{
		Transactions:      h.toTransactionDTOs(r.Context(), page.Transactions),
		Page:              page.Page,
		TotalPages:        page.TotalPages,
		TotalTransactions: page.TotalCount,
	})
}

// CreateTransaction creates an order transaction.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	method, err := ledger.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	lines := make([]ledger.OrderLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = ledger.OrderLine{ItemID: item.ItemID, Quantity: int(item.Quantity)}
	}

	tx, err := h.Core.CreateOrder(r.Context(), req.CustomerID, lines, decimal.NewFromFloat(req.AmountPaid), method)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	name := ""
	if c, err := h.Core.GetCustomer(r.Context(), tx.CustomerID); err == nil {
		name = c.Name
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(*tx, name))
}

// GetTransaction returns a single transaction.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.Core.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := h.toTransactionDTOs(r.Context(), []ledger.Transaction{*tx})
	writeJSON(w, http.StatusOK, dtos[0])
}

// RecordTransactionPayment applies a payment to one transaction.
func (h *Handler) RecordTransactionPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	method, err := ledger.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.Core.RecordTransactionPayment(r.Context(), chi.URLParam(r, "id"),
		decimal.NewFromFloat(req.Amount), method)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	name := ""
	if c, err := h.Core.GetCustomer(r.Context(), result.Transaction.CustomerID); err == nil {
		name = c.Name
	}
	writeJSON(w, http.StatusOK, TransactionPaymentDTO{
		Message:       "Payment recorded successfully",
		Transaction:   toTransactionDTO(result.Transaction, name),
		PaymentAmount: result.ActualPayment.InexactFloat64(),
	})
}

// =============================================================================
// DASHBOARD & REPORT HANDLERS
// =============================================================================

// Dashboard returns the daily summary. Optional ?date= picks the day.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if s := r.URL.Query().Get("date"); s != "" {
		t, ok := parseDateParam(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid date", nil)
			return
		}
		asOf = t
	}

	summary, err := h.Reports.Daily(r.Context(), asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard", nil)
		return
	}
	writeJSON(w, http.StatusOK, DashboardDTO{
		TodaySales:         summary.SalesTotal.InexactFloat64(),
		TotalCustomers:     summary.TotalCustomers,
		TotalMenuItems:     summary.TotalMenuItems,
		PendingCredits:     summary.PendingCredits.InexactFloat64(),
		CashPayments:       summary.CashPayments.InexactFloat64(),
		UPIPayments:        summary.UPIPayments.InexactFloat64(),
		PopularItems:       toItemSalesDTOs(summary.PopularItems),
		RecentTransactions: h.toTransactionDTOs(r.Context(), summary.RecentTransactions),
	})
}

// Report returns the range report. Optional ?startDate=&endDate= bound the
// window; the default is the trailing six calendar months.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	var start, end *time.Time
	if s := r.URL.Query().Get("startDate"); s != "" {
		t, ok := parseDateParam(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid startDate", nil)
			return
		}
		start = &t
	}
	if s := r.URL.Query().Get("endDate"); s != "" {
		t, ok := parseDateParam(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid endDate", nil)
			return
		}
		end = &t
	}

	report, err := h.Reports.Range(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", nil)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(report))
}
