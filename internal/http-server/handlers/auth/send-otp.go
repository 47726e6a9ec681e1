package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"edudesk/entity"
	"edudesk/internal/lib/api/response"
	"edudesk/internal/lib/sl"
	"edudesk/internal/lib/validate"
)

type SendOtpRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Channel     string `json:"channel" validate:"omitempty,oneof=sms whatsapp"`
}

func SendOtp(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var req SendOtpRequest
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
		if req.Channel == "" {
			req.Channel = entity.ChannelSMS
		}

		if err := handler.SendOtp(r.Context(), req.Channel, req.PhoneNumber); err != nil {
			logger.Error("send otp", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error(fmt.Sprintf("%v", err)))
			return
		}
		logger.Debug("otp sent", slog.String("phone", req.PhoneNumber))

		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, response.Ok("OTP sent"))
	}
}
