package expenses

import (
	"net/http"
	"strings"

	expensesdomain "dues-app-go/internal/domain/expenses"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	"dues-app-go/internal/transport/httpserver/middleware"
	"dues-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Expenses *expensesdomain.Service
	respond  *commonhandler.Responder
	log      logger.Logger
}

func New(expenses *expensesdomain.Service, respond *commonhandler.Responder) *Handlers {
	return &Handlers{
		Expenses: expenses,
		respond:  respond,
		log:      respond.Log(),
	}
}

type createExpenseRequest struct {
	Category    string          `json:"category" validate:"required,max=100"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"required,max=1000"`
	ExpenseDate string          `json:"expenseDate" validate:"required,max=32"`
	ReceiptURL  string          `json:"receiptUrl" validate:"omitempty,url,max=2048"`
}

type expenseResponse struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	ExpenseDate string  `json:"expense_date"`
	ReceiptURL  *string `json:"receipt_url"`
	ApprovedBy  *string `json:"approved_by"`
	CreatedAt   string  `json:"created_at"`
}

type categoryResponse struct {
	Category string  `json:"category"`
	Count    int64   `json:"count"`
	Total    float64 `json:"total"`
}

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, commonhandler.DefaultLimit)
	if err != nil {
		h.respond.BadRequest(w, "invalid_request", err.Error())
		return
	}

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("startDate"))
	if err != nil {
		h.respond.BadRequest(w, "invalid_request", "invalid startDate")
		return
	}
	to, err := parseDateParam(query.Get("endDate"))
	if err != nil {
		h.respond.BadRequest(w, "invalid_request", "invalid endDate")
		return
	}

	items, total, err := h.Expenses.ListExpenses(r.Context(), expensesdomain.ListFilter{
		Category: strings.TrimSpace(query.Get("category")),
		From:     from,
		To:       to,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	})
	if err != nil {
		h.respond.Fail(w, "expenses.list: list expenses failed", err)
		return
	}

	response := make([]expenseResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toExpenseResponse(item))
	}
	writePage(w, response, page, total)
}

func (h *Handlers) GetExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	expense, err := h.Expenses.GetExpense(r.Context(), id)
	if err != nil {
		h.respond.Fail(w, "expenses.get: get expense failed", err, "expense_id", id)
		return
	}

	writeData(w, http.StatusOK, toExpenseResponse(*expense))
}

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respond.Unauthorized(w)
		return
	}

	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.InvalidJSON(w)
		return
	}
	if err := validate(req); err != nil {
		h.respond.Fail(w, "expenses.create: invalid request", err)
		return
	}

	date, err := parseDateParam(req.ExpenseDate)
	if err != nil || date == nil {
		h.respond.BadRequest(w, "invalid_request", "invalid expenseDate")
		return
	}

	expense, err := h.Expenses.CreateExpense(r.Context(), expensesdomain.CreateExpenseInput{
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		ExpenseDate: *date,
		ReceiptURL:  req.ReceiptURL,
		ApprovedBy:  user.ID,
	})
	if err != nil {
		h.respond.Fail(w, "expenses.create: create expense failed", err, "user_id", user.ID)
		return
	}

	writeMessage(w, http.StatusCreated, "Expense recorded successfully", toExpenseResponse(*expense))
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Expenses.ListCategories(r.Context())
	if err != nil {
		h.respond.Fail(w, "expenses.categories: list categories failed", err)
		return
	}

	response := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, categoryResponse{
			Category: category.Category,
			Count:    category.Count,
			Total:    category.Total.InexactFloat64(),
		})
	}
	writeData(w, http.StatusOK, response)
}

func toExpenseResponse(expense expensesdomain.Expense) expenseResponse {
	return expenseResponse{
		ID:          expense.ID,
		Category:    expense.Category,
		Amount:      expense.Amount.InexactFloat64(),
		Description: expense.Description,
		ExpenseDate: formatDate(expense.ExpenseDate),
		ReceiptURL:  expense.ReceiptURL,
		ApprovedBy:  expense.ApprovedBy,
		CreatedAt:   formatTime(expense.CreatedAt),
	}
}
