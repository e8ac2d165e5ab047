package members

import (
	"net/http"
	"strings"

	memberdomain "dues-app-go/internal/domain/member"
	paymentdomain "dues-app-go/internal/domain/payment"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	"dues-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createMemberRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	Phone       string `json:"phone" validate:"required,min=10,max=20"`
	Address     string `json:"address" validate:"max=500"`
	DateOfBirth string `json:"dateOfBirth" validate:"max=32"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	UserID      string `json:"userId" validate:"omitempty,uuid"`
}

type updateMemberRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email       *string `json:"email" validate:"omitempty,email,max=254"`
	Phone       *string `json:"phone" validate:"omitempty,min=10,max=20"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,max=32"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	UserID      *string `json:"userId" validate:"omitempty,uuid"`
}

type owingMonthsRequest struct {
	Months []string `json:"months" validate:"required,min=1,max=120,dive,yearmonth"`
}

type memberResponse struct {
	ID             string   `json:"id"`
	UserID         *string  `json:"user_id"`
	Name           string   `json:"name"`
	Email          *string  `json:"email"`
	Phone          string   `json:"phone"`
	Address        *string  `json:"address"`
	DateOfBirth    *string  `json:"date_of_birth"`
	MembershipDate string   `json:"membership_date"`
	Status         string   `json:"status"`
	TotalPaid      float64  `json:"total_paid"`
	TotalOwing     float64  `json:"total_owing"`
	OwingMonths    []string `json:"owingMonths"`
	CreditMonths   []string `json:"creditMonths"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type memberDetailResponse struct {
	memberResponse
	Payments []memberPaymentResponse `json:"payments"`
}

type memberPaymentResponse struct {
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
}

type monthAmountResponse struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type statsResponse struct {
	TotalMembers      int64   `json:"totalMembers"`
	ActiveMembers     int64   `json:"activeMembers"`
	MembersOwing      int64   `json:"membersOwing"`
	TotalOwingAmount  float64 `json:"totalOwingAmount"`
	TotalPaidThisYear float64 `json:"totalPaidThisYear"`
	MembersPaidUp     int64   `json:"membersPaidUp"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, commonhandler.DefaultLimit)
	if err != nil {
		h.respond.BadRequest(w, "invalid_request", err.Error())
		return
	}

	query := r.URL.Query()
	filter := memberdomain.ListFilter{
		Status: memberdomain.Status(strings.TrimSpace(query.Get("status"))),
		Search: query.Get("search"),
		Limit:  page.Limit,
		Offset: page.Offset(),
	}

	items, total, err := h.Members.List(r.Context(), filter)
	if err != nil {
		h.respond.Fail(w, "members.list: list members failed", err)
		return
	}

	response := make([]memberResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toMemberResponse(item))
	}
	writePage(w, response, page, total)
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	member, err := h.Members.Get(r.Context(), id)
	if err != nil {
		h.respond.Fail(w, "members.get: get member failed", err, "member_id", id)
		return
	}

	payments, _, err := h.Payments.ListByMember(r.Context(), id, commonhandler.DefaultLimit, 0)
	if err != nil {
		h.respond.Fail(w, "members.get: list payments failed", err, "member_id", id)
		return
	}

	writeData(w, http.StatusOK, memberDetailResponse{
		memberResponse: toMemberResponse(*member),
		Payments:       toMemberPayments(payments),
	})
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.InvalidJSON(w)
		return
	}
	if err := validate(req); err != nil {
		h.respond.Fail(w, "members.create: invalid request", err)
		return
	}

	dob, err := parseDateParam(req.DateOfBirth)
	if err != nil {
		h.respond.BadRequest(w, "invalid_request", "invalid dateOfBirth")
		return
	}

	member, err := h.Members.Create(r.Context(), memberdomain.CreateInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		DateOfBirth: dob,
		Status:      req.Status,
		UserID:      req.UserID,
	})
	if err != nil {
		h.respond.Fail(w, "members.create: create member failed", err)
		return
	}

	if user, ok := middleware.UserFromContext(r.Context()); ok {
		h.log.Info("members.create: member created", "member_id", member.ID, "user_id", user.ID)
	}
	writeMessage(w, http.StatusCreated, "Member created successfully", toMemberResponse(memberdomain.MemberWithMonths{Member: *member}))
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.InvalidJSON(w)
		return
	}
	if err := validate(req); err != nil {
		h.respond.Fail(w, "members.update: invalid request", err)
		return
	}

	input := memberdomain.UpdateInput{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Status:  req.Status,
		UserID:  req.UserID,
	}
	if req.DateOfBirth != nil {
		dob, err := parseDateParam(*req.DateOfBirth)
		if err != nil {
			h.respond.BadRequest(w, "invalid_request", "invalid dateOfBirth")
			return
		}
		input.DateOfBirth = dob
	}

	member, err := h.Members.Update(r.Context(), input)
	if err != nil {
		h.respond.Fail(w, "members.update: update member failed", err, "member_id", id)
		return
	}

	writeMessage(w, http.StatusOK, "Member updated successfully", toMemberResponse(memberdomain.MemberWithMonths{Member: *member}))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Members.Delete(r.Context(), id); err != nil {
		h.respond.Fail(w, "members.delete: delete member failed", err, "member_id", id)
		return
	}

	writeMessage(w, http.StatusOK, "Member deleted successfully", nil)
}

func (h *Handlers) ListMemberPayments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	page, err := parsePage(r, memberPaymentsLimit)
	if err != nil {
		h.respond.BadRequest(w, "invalid_request", err.Error())
		return
	}

	if _, err := h.Members.Get(r.Context(), id); err != nil {
		h.respond.Fail(w, "members.payments: get member failed", err, "member_id", id)
		return
	}

	payments, total, err := h.Payments.ListByMember(r.Context(), id, page.Limit, page.Offset())
	if err != nil {
		h.respond.Fail(w, "members.payments: list payments failed", err, "member_id", id)
		return
	}

	writePage(w, toMemberPayments(payments), page, total)
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Members.Stats(r.Context())
	if err != nil {
		h.respond.Fail(w, "members.stats: load stats failed", err)
		return
	}

	writeData(w, http.StatusOK, statsResponse{
		TotalMembers:      stats.TotalMembers,
		ActiveMembers:     stats.ActiveMembers,
		MembersOwing:      stats.MembersOwing,
		TotalOwingAmount:  stats.TotalOwingAmount.InexactFloat64(),
		TotalPaidThisYear: stats.TotalPaidThisYear.InexactFloat64(),
		MembersPaidUp:     stats.MembersPaidUp,
	})
}

func (h *Handlers) AddOwingMonths(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req owingMonthsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.InvalidJSON(w)
		return
	}
	if err := validate(req); err != nil {
		h.respond.Fail(w, "members.owing_months: invalid request", err)
		return
	}

	items, err := h.Members.AddOwingMonths(r.Context(), id, req.Months)
	if err != nil {
		h.respond.Fail(w, "members.owing_months: add months failed", err, "member_id", id)
		return
	}

	response := make([]monthAmountResponse, 0, len(items))
	for _, item := range items {
		response = append(response, monthAmountResponse{Month: item.Month, Amount: item.Amount.InexactFloat64()})
	}
	writeMessage(w, http.StatusCreated, "Owing months added successfully", response)
}

func toMemberResponse(member memberdomain.MemberWithMonths) memberResponse {
	response := memberResponse{
		ID:             member.ID,
		UserID:         member.UserID,
		Name:           member.Name,
		Email:          member.Email,
		Phone:          member.Phone,
		Address:        member.Address,
		MembershipDate: formatDate(member.MembershipDate),
		Status:         string(member.Status),
		TotalPaid:      member.TotalPaid.InexactFloat64(),
		TotalOwing:     member.TotalOwing.InexactFloat64(),
		OwingMonths:    member.OwingMonthKeys(),
		CreditMonths:   member.CreditMonthKeys(),
		CreatedAt:      formatTime(member.CreatedAt),
		UpdatedAt:      formatTime(member.UpdatedAt),
	}
	if member.DateOfBirth != nil {
		dob := formatDate(*member.DateOfBirth)
		response.DateOfBirth = &dob
	}
	return response
}

func toMemberPayments(payments []paymentdomain.Payment) []memberPaymentResponse {
	response := make([]memberPaymentResponse, 0, len(payments))
	for _, payment := range payments {
		months := []string(payment.MonthsPaid)
		if months == nil {
			months = []string{}
		}
		response = append(response, memberPaymentResponse{
			ID:          payment.ID,
			MemberID:    payment.MemberID,
			Amount:      payment.Amount.InexactFloat64(),
			Method:      string(payment.Method),
			PaymentDate: formatTime(payment.PaymentDate),
			MonthsPaid:  months,
			IsAdvance:   payment.IsAdvance,
			Notes:       payment.Notes,
			RecordedBy:  payment.RecordedBy,
			CreatedAt:   formatTime(payment.CreatedAt),
		})
	}
	return response
}
