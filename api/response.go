package api

import (
	"encoding/json"
	"net/http"

	"github.com/raffle-lab/backend/pkg/errorx"
)

type response[Response any] struct {
	Code int       `json:"code"`
	Data *Response `json:"data,omitempty"`
}

type errorResponse struct {
	Code    errorx.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, errx errorx.Error) {
	writeJson(w, status, errorResponse{Code: errx.Code, Message: errx.Message})
}
