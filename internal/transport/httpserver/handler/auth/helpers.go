package auth

import (
	"net/http"

	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
)

func writeData(w http.ResponseWriter, status int, data any) {
	commonhandler.WriteData(w, status, data)
}

func writeMessage(w http.ResponseWriter, status int, message string, data any) {
	commonhandler.WriteMessage(w, status, message, data)
}

func decodeJSON(r *http.Request, dst any) error {
	return commonhandler.DecodeJSON(r, dst)
}

func validate(payload any) error {
	return commonhandler.Validate(payload)
}
