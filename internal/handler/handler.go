package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"food-dash/internal/middleware"
	"food-dash/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps a service error to an HTTP response. Domain errors carry
// a stable code that decides the status; anything else is an opaque 500.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("handler error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "internal server error",
		})
		return
	}

	status := statusForCode(domainErr.Code)
	if status >= http.StatusInternalServerError {
		logger.Error().Str("code", domainErr.Code).Str("error", domainErr.Message).Msg("handler error")
	} else {
		logger.Debug().Str("code", domainErr.Code).Int("status", status).Msg("request rejected")
	}

	writeJSON(w, status, model.ErrorResponse{
		Error:   domainErr.Code,
		Message: domainErr.Message,
	})
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeResourceNotFound, model.ErrCodeCouponNotFound:
		return http.StatusNotFound
	case model.ErrCodeOrderAlreadyProcessed, model.ErrCodeCouponExhausted:
		return http.StatusConflict
	case model.ErrCodeAccessDenied:
		return http.StatusForbidden
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidArgument, model.ErrCodeInvalidJSON,
		model.ErrCodeProductUnavailable, model.ErrCodeCouponInactive,
		model.ErrCodeCouponExpired, model.ErrCodeCouponMinimumNotMet:
		return http.StatusBadRequest
	case model.ErrCodePaymentGateway:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// actorFrom retrieves the actor resolved by the middleware, rejecting the
// request when it is absent.
func actorFrom(w http.ResponseWriter, r *http.Request) (model.Actor, bool) {
	actor, ok := middleware.ActorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{
			Error:   model.ErrCodeUnauthorised,
			Message: "actor identity required",
		})
		return model.Actor{}, false
	}
	return actor, true
}

// decodeJSON decodes a request body, rejecting malformed payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeInvalidJSON,
			Message: "invalid request body",
		})
		return false
	}
	return true
}
