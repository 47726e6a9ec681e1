package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"edudesk/internal/lib/api/response"
	"edudesk/internal/lib/sl"
	"edudesk/internal/lib/validate"
)

type VerifyOtpRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

func VerifyOtp(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.auth")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("otp service not available")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("OTP service not available"))
			return
		}

		var req VerifyOtpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if err := validate.Struct(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		if err := handler.VerifyOtp(r.Context(), req.PhoneNumber, req.Code); err != nil {
			logger.Error("verify otp", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("%v", err)))
			return
		}
		logger.Debug("otp verified", slog.String("phone", req.PhoneNumber))

		render.JSON(w, r, response.Ok("Mobile number verified"))
	}
}
