package payments

import (
	"net/http"
	"strings"

	paymentdomain "dues-app-go/internal/domain/payment"
	"dues-app-go/internal/metrics"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	"dues-app-go/internal/transport/httpserver/middleware"
	"dues-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Payments *paymentdomain.Service
	respond  *commonhandler.Responder
	log      logger.Logger
}

func New(payments *paymentdomain.Service, respond *commonhandler.Responder) *Handlers {
	return &Handlers{
		Payments: payments,
		respond:  respond,
		log:      respond.Log(),
	}
}

type createPaymentRequest struct {
	MemberID         string          `json:"memberId" validate:"required,uuid"`
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method" validate:"required,oneof=cash mobile_money bank_transfer"`
	MonthsPaid       []string        `json:"monthsPaid" validate:"omitempty,max=120,dive,yearmonth"`
	IsAdvancePayment bool            `json:"isAdvancePayment"`
	Notes            string          `json:"notes" validate:"max=500"`
	PaymentDate      string          `json:"paymentDate"`
}

type paymentResponse struct {
	ID          string   `json:"id"`
	MemberID    string   `json:"member_id"`
	Amount      float64  `json:"amount"`
	Method      string   `json:"payment_method"`
	PaymentDate string   `json:"payment_date"`
	MonthsPaid  []string `json:"months_paid"`
	IsAdvance   bool     `json:"is_advance_payment"`
	Notes       *string  `json:"notes"`
	RecordedBy  *string  `json:"recorded_by"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	MemberName  string   `json:"member_name,omitempty"`
	MemberEmail *string  `json:"member_email,omitempty"`
	MemberPhone string   `json:"member_phone,omitempty"`
}

type receiptResponse struct {
	Payment    paymentResponse `json:"payment"`
	Settled    []string        `json:"settledMonths"`
	Credited   []string        `json:"creditMonths"`
	TotalPaid  float64         `json:"total_paid"`
	TotalOwing float64         `json:"total_owing"`
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
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

	filter := paymentdomain.ListFilter{
		MemberID: strings.TrimSpace(query.Get("memberId")),
		Method:   paymentdomain.Method(strings.TrimSpace(query.Get("method"))),
		From:     from,
		To:       to,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	}

	items, total, err := h.Payments.List(r.Context(), filter)
	if err != nil {
		h.respond.Fail(w, "payments.list: list payments failed", err)
		return
	}

	response := make([]paymentResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toPaymentWithMemberResponse(item))
	}
	writePage(w, response, page, total)
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payment, err := h.Payments.Get(r.Context(), id)
	if err != nil {
		h.respond.Fail(w, "payments.get: get payment failed", err, "payment_id", id)
		return
	}

	writeData(w, http.StatusOK, toPaymentWithMemberResponse(*payment))
}

func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respond.Unauthorized(w)
		return
	}

	var req createPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.InvalidJSON(w)
		return
	}
	if err := validate(req); err != nil {
		h.respond.Fail(w, "payments.create: invalid request", err)
		return
	}

	paymentDate, err := parseDateParam(req.PaymentDate)
	if err != nil {
		h.respond.BadRequest(w, "invalid_request", "invalid paymentDate")
		return
	}

	receipt, err := h.Payments.Record(r.Context(), paymentdomain.RecordInput{
		MemberID:    req.MemberID,
		Amount:      req.Amount,
		Method:      req.Method,
		MonthsPaid:  req.MonthsPaid,
		IsAdvance:   req.IsAdvancePayment,
		Notes:       req.Notes,
		RecordedBy:  user.ID,
		PaymentDate: paymentDate,
	})
	if err != nil {
		h.respond.Fail(w, "payments.create: record payment failed", err, "member_id", req.MemberID, "user_id", user.ID)
		return
	}

	metrics.PaymentsRecorded.WithLabelValues(string(receipt.Payment.Method)).Inc()
	h.log.Info("payments.create: payment recorded",
		"payment_id", receipt.Payment.ID,
		"member_id", receipt.Member.ID,
		"amount", receipt.Payment.Amount.String(),
		"user_id", user.ID,
	)

	writeMessage(w, http.StatusCreated, "Payment recorded successfully", receiptResponse{
		Payment:    toPaymentResponse(receipt.Payment),
		Settled:    nonNil(receipt.Settled),
		Credited:   nonNil(receipt.Credited),
		TotalPaid:  receipt.TotalPaid.InexactFloat64(),
		TotalOwing: receipt.TotalOwing.InexactFloat64(),
	})
}

func toPaymentResponse(payment paymentdomain.Payment) paymentResponse {
	return paymentResponse{
		ID:          payment.ID,
		MemberID:    payment.MemberID,
		Amount:      payment.Amount.InexactFloat64(),
		Method:      string(payment.Method),
		PaymentDate: formatTime(payment.PaymentDate),
		MonthsPaid:  nonNil(payment.MonthsPaid),
		IsAdvance:   payment.IsAdvance,
		Notes:       payment.Notes,
		RecordedBy:  payment.RecordedBy,
		CreatedAt:   formatTime(payment.CreatedAt),
		UpdatedAt:   formatTime(payment.UpdatedAt),
	}
}

func toPaymentWithMemberResponse(payment paymentdomain.PaymentWithMember) paymentResponse {
	response := toPaymentResponse(payment.Payment)
	response.MemberName = payment.MemberName
	response.MemberEmail = payment.MemberEmail
	response.MemberPhone = payment.MemberPhone
	return response
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
