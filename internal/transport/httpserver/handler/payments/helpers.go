package payments

import (
	"net/http"
	"time"

	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
)

func writeData(w http.ResponseWriter, status int, data any) {
	commonhandler.WriteData(w, status, data)
}

func writeMessage(w http.ResponseWriter, status int, message string, data any) {
	commonhandler.WriteMessage(w, status, message, data)
}

func writePage(w http.ResponseWriter, data any, page commonhandler.Page, total int64) {
	commonhandler.WritePage(w, data, page, total)
}

func decodeJSON(r *http.Request, dst any) error {
	return commonhandler.DecodeJSON(r, dst)
}

func validate(payload any) error {
	return commonhandler.Validate(payload)
}

func parsePage(r *http.Request, defaultLimit int) (commonhandler.Page, error) {
	query := r.URL.Query()
	return commonhandler.ParsePage(query.Get("page"), query.Get("limit"), defaultLimit)
}

func parseDateParam(value string) (*time.Time, error) {
	return commonhandler.ParseDateParam(value)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
