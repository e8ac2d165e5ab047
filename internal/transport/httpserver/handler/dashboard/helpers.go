package dashboard

import (
	"net/http"
	"time"

	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
)

func writeData(w http.ResponseWriter, status int, data any) {
	commonhandler.WriteData(w, status, data)
}

func parseDateParam(value string) (*time.Time, error) {
	return commonhandler.ParseDateParam(value)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
