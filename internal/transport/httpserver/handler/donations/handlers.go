package donations

import (
	"net/http"
	"strings"

	donationsdomain "dues-app-go/internal/domain/donations"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	"dues-app-go/internal/transport/httpserver/middleware"
	"dues-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Donations *donationsdomain.Service
	respond   *commonhandler.Responder
	log       logger.Logger
}

func New(donations *donationsdomain.Service, respond *commonhandler.Responder) *Handlers {
	return &Handlers{
		Donations: donations,
		respond:   respond,
		log:       respond.Log(),
	}
}

type createDonationRequest struct {
	MemberID      string          `json:"memberId" validate:"omitempty,uuid"`
	DonorName     string          `json:"donorName" validate:"required,max=100"`
	Amount        decimal.Decimal `json:"amount"`
	DonationType  string          `json:"donationType" validate:"required,oneof=tithe offering special other"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=cash mobile_money bank_transfer"`
	DonationDate  string          `json:"donationDate"`
	Notes         string          `json:"notes" validate:"max=500"`
}

type donationResponse struct {
	ID            string  `json:"id"`
	MemberID      *string `json:"member_id"`
	DonorName     string  `json:"donor_name"`
	Amount        float64 `json:"amount"`
	DonationType  string  `json:"donation_type"`
	PaymentMethod string  `json:"payment_method"`
	DonationDate  string  `json:"donation_date"`
	Notes         *string `json:"notes"`
	RecordedBy    *string `json:"recorded_by"`
	CreatedAt     string  `json:"created_at"`
}

func (h *Handlers) ListDonations(w http.ResponseWriter, r *http.Request) {
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

	items, total, err := h.Donations.List(r.Context(), donationsdomain.ListFilter{
		DonationType:  donationsdomain.Type(strings.TrimSpace(query.Get("donationType"))),
		PaymentMethod: strings.TrimSpace(query.Get("paymentMethod")),
		From:          from,
		To:            to,
		Limit:         page.Limit,
		Offset:        page.Offset(),
	})
	if err != nil {
		h.respond.Fail(w, "donations.list: list donations failed", err)
		return
	}

	response := make([]donationResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toDonationResponse(item))
	}
	writePage(w, response, page, total)
}

func (h *Handlers) GetDonation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	donation, err := h.Donations.Get(r.Context(), id)
	if err != nil {
		h.respond.Fail(w, "donations.get: get donation failed", err, "donation_id", id)
		return
	}

	writeData(w, http.StatusOK, toDonationResponse(*donation))
}

func (h *Handlers) CreateDonation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respond.Unauthorized(w)
		return
	}

	var req createDonationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.InvalidJSON(w)
		return
	}
	if err := validate(req); err != nil {
		h.respond.Fail(w, "donations.create: invalid request", err)
		return
	}

	donationDate, err := parseDateParam(req.DonationDate)
	if err != nil {
		h.respond.BadRequest(w, "invalid_request", "invalid donationDate")
		return
	}

	donation, err := h.Donations.Create(r.Context(), donationsdomain.CreateInput{
		MemberID:      req.MemberID,
		DonorName:     req.DonorName,
		Amount:        req.Amount,
		DonationType:  req.DonationType,
		PaymentMethod: req.PaymentMethod,
		DonationDate:  donationDate,
		Notes:         req.Notes,
		RecordedBy:    user.ID,
	})
	if err != nil {
		h.respond.Fail(w, "donations.create: create donation failed", err, "user_id", user.ID)
		return
	}

	writeMessage(w, http.StatusCreated, "Donation recorded successfully", toDonationResponse(*donation))
}

func toDonationResponse(donation donationsdomain.Donation) donationResponse {
	return donationResponse{
		ID:            donation.ID,
		MemberID:      donation.MemberID,
		DonorName:     donation.DonorName,
		Amount:        donation.Amount.InexactFloat64(),
		DonationType:  string(donation.DonationType),
		PaymentMethod: donation.PaymentMethod,
		DonationDate:  formatTime(donation.DonationDate),
		Notes:         donation.Notes,
		RecordedBy:    donation.RecordedBy,
		CreatedAt:     formatTime(donation.CreatedAt),
	}
}
