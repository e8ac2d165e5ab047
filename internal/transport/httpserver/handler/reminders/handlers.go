package reminders

import (
	"net/http"
	"strings"

	remindersdomain "dues-app-go/internal/domain/reminders"
	"dues-app-go/internal/metrics"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	"dues-app-go/internal/transport/httpserver/middleware"
	"dues-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	Reminders *remindersdomain.Service
	respond   *commonhandler.Responder
	log       logger.Logger
}

func New(reminders *remindersdomain.Service, respond *commonhandler.Responder) *Handlers {
	return &Handlers{
		Reminders: reminders,
		respond:   respond,
		log:       respond.Log(),
	}
}

type createReminderRequest struct {
	MemberID string `json:"memberId" validate:"required,uuid"`
	Message  string `json:"message" validate:"required,max=1000"`
}

type reminderResponse struct {
	ID          string  `json:"id"`
	MemberID    string  `json:"member_id"`
	Message     string  `json:"message"`
	Status      string  `json:"status"`
	SentAt      *string `json:"sent_at"`
	Error       *string `json:"error"`
	CreatedBy   *string `json:"created_by"`
	CreatedAt   string  `json:"created_at"`
	MemberName  string  `json:"member_name,omitempty"`
	MemberPhone string  `json:"member_phone,omitempty"`
}

func (h *Handlers) ListReminders(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, commonhandler.DefaultLimit)
	if err != nil {
		h.respond.BadRequest(w, "invalid_request", err.Error())
		return
	}

	items, total, err := h.Reminders.List(r.Context(), remindersdomain.ListFilter{
		Status: remindersdomain.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		h.respond.Fail(w, "reminders.list: list reminders failed", err)
		return
	}

	response := make([]reminderResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toReminderWithMemberResponse(item))
	}
	writePage(w, response, page, total)
}

func (h *Handlers) CreateReminder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respond.Unauthorized(w)
		return
	}

	var req createReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respond.InvalidJSON(w)
		return
	}
	if err := validate(req); err != nil {
		h.respond.Fail(w, "reminders.create: invalid request", err)
		return
	}

	reminder, err := h.Reminders.Create(r.Context(), remindersdomain.CreateInput{
		MemberID:  req.MemberID,
		Message:   req.Message,
		CreatedBy: user.ID,
	})
	if err != nil {
		h.respond.Fail(w, "reminders.create: create reminder failed", err, "member_id", req.MemberID)
		return
	}

	writeMessage(w, http.StatusCreated, "Reminder created successfully", toReminderResponse(*reminder))
}

func (h *Handlers) CreateOwingReminders(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respond.Unauthorized(w)
		return
	}

	items, err := h.Reminders.CreateForOwing(r.Context(), user.ID)
	if err != nil {
		h.respond.Fail(w, "reminders.owing: create reminders failed", err, "user_id", user.ID)
		return
	}

	response := make([]reminderResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toReminderResponse(item))
	}
	h.log.Info("reminders.owing: reminders queued", "count", len(items), "user_id", user.ID)
	writeMessage(w, http.StatusCreated, "Reminders created for members with outstanding dues", response)
}

func (h *Handlers) SendReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reminder, err := h.Reminders.Send(r.Context(), id)
	if err != nil {
		h.respond.Fail(w, "reminders.send: send reminder failed", err, "reminder_id", id)
		return
	}

	metrics.RemindersSent.WithLabelValues(string(reminder.Status)).Inc()
	if reminder.Status == remindersdomain.StatusFailed {
		h.log.Warn("reminders.send: delivery failed", "reminder_id", id, "member_id", reminder.MemberID)
		writeMessage(w, http.StatusOK, "Reminder delivery failed", toReminderWithMemberResponse(*reminder))
		return
	}

	writeMessage(w, http.StatusOK, "Reminder sent successfully", toReminderWithMemberResponse(*reminder))
}

func toReminderResponse(reminder remindersdomain.Reminder) reminderResponse {
	response := reminderResponse{
		ID:        reminder.ID,
		MemberID:  reminder.MemberID,
		Message:   reminder.Message,
		Status:    string(reminder.Status),
		Error:     reminder.Error,
		CreatedBy: reminder.CreatedBy,
		CreatedAt: formatTime(reminder.CreatedAt),
	}
	if reminder.SentAt != nil {
		sentAt := formatTime(*reminder.SentAt)
		response.SentAt = &sentAt
	}
	return response
}

func toReminderWithMemberResponse(reminder remindersdomain.ReminderWithMember) reminderResponse {
	response := toReminderResponse(reminder.Reminder)
	response.MemberName = reminder.MemberName
	response.MemberPhone = reminder.MemberPhone
	return response
}
