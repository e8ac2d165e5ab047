package dashboard

import (
	"net/http"
	"strings"

	analyticsdomain "dues-app-go/internal/domain/analytics"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	"dues-app-go/pkg/logger"
)

type Handlers struct {
	Analytics *analyticsdomain.Service
	respond   *commonhandler.Responder
	log       logger.Logger
}

func New(analytics *analyticsdomain.Service, respond *commonhandler.Responder) *Handlers {
	return &Handlers{
		Analytics: analytics,
		respond:   respond,
		log:       respond.Log(),
	}
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.Stats(r.Context())
	if err != nil {
		h.respond.Fail(w, "dashboard.stats: load stats failed", err)
		return
	}

	writeData(w, http.StatusOK, toStatsResponse(stats))
}

func (h *Handlers) MonthlyCollections(w http.ResponseWriter, r *http.Request) {
	year, err := commonhandler.ParseIntParam(r.URL.Query().Get("year"), 0)
	if err != nil {
		h.respond.BadRequest(w, "invalid_request", "invalid year")
		return
	}

	collections, err := h.Analytics.Collections(r.Context(), year)
	if err != nil {
		h.respond.Fail(w, "dashboard.monthly_collections: aggregate failed", err, "year", year)
		return
	}

	writeData(w, http.StatusOK, toBucketResponses(collections.Months))
}

func (h *Handlers) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	year, err := commonhandler.ParseIntParam(r.URL.Query().Get("year"), 0)
	if err != nil {
		h.respond.BadRequest(w, "invalid_request", "invalid year")
		return
	}

	collections, err := h.Analytics.Collections(r.Context(), year)
	if err != nil {
		h.respond.Fail(w, "dashboard.payment_methods: aggregate failed", err, "year", year)
		return
	}

	writeData(w, http.StatusOK, toMethodResponses(collections.Methods))
}

func (h *Handlers) FinancialReport(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.Analytics.FinancialReport(r.Context(), analyticsdomain.ReportFilter{
		From: from,
		To:   to,
		Type: analyticsdomain.ReportType(strings.TrimSpace(query.Get("type"))),
	})
	if err != nil {
		h.respond.Fail(w, "reports.financial: build report failed", err)
		return
	}

	writeData(w, http.StatusOK, toReportResponse(report))
}
