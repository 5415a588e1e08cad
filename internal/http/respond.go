package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tuannm151/sweetshop/internal/http/apierr"
)

// responder centralizes response encoding and the error-to-status mapping
// shared by every handler.
type responder struct {
	logger *slog.Logger
}

func (rs *responder) JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.ErrorContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
}

func (rs *responder) Err(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	rs.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		rs.logger.ErrorContext(r.Context(), "error encoding error response", slog.Any("error", err))
	}
}
