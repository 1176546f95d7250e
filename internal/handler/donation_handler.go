package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/grachmannico95/donation-be/internal/domain"
	"github.com/grachmannico95/donation-be/internal/service"
	"github.com/grachmannico95/donation-be/pkg/logger"
)

type DonationHandler struct {
	service service.DonationService
	logger  *logger.Logger
}

func NewDonationHandler(service service.DonationService, log *logger.Logger) *DonationHandler {
	return &DonationHandler{
		service: service,
		logger:  log,
	}
}

type initiateRequest struct {
	Amount            int64  `json:"amount"`
	PhoneNumber       string `json:"phoneNumber"`
	CustomerName      string `json:"customerName"`
	ExternalReference string `json:"externalReference"`
}

// describeInitiateError maps an initiation failure to a status code and a
// client-safe message.
func describeInitiateError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrDuplicateReference):
		return http.StatusConflict, "external reference already used"
	case errors.Is(err, domain.ErrGatewayRejected):
		return http.StatusBadGateway, "payment gateway rejected the request"
	case errors.Is(err, domain.ErrGatewayUnreachable):
		return http.StatusServiceUnavailable, "payment gateway unavailable"
	default:
		return http.StatusInternalServerError, "failed to initiate donation"
	}
}

func (h *DonationHandler) Initiate(c echo.Context) error {
	ctx := c.Request().Context()

	var body initiateRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "invalid request body",
		})
	}

	result, err := h.service.InitiateDonation(ctx, domain.PaymentRequest{
		Amount:            body.Amount,
		PhoneNumber:       body.PhoneNumber,
		CustomerName:      body.CustomerName,
		ExternalReference: body.ExternalReference,
	})
	if err != nil {
		status, message := describeInitiateError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(ctx, "Failed to initiate donation", "error", err)
		}
		return c.JSON(status, map[string]string{
			"status":  "error",
			"message": message,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":              "success",
		"message":             "STK push initiated",
		"checkout_request_id": result.Ack.CheckoutRequestID,
		"reference":           result.Ack.Reference,
	})
}

// Callback always acknowledges a parsable payload; the gateway has no use
// for our internal errors and would only resend.
func (h *DonationHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()

	var payload domain.CallbackPayload
	if err := c.Bind(&payload); err != nil {
		h.logger.Warn(ctx, "Malformed callback payload", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid callback payload",
		})
	}
	if payload.Response.ResultCode == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "ResultCode is required",
		})
	}
	if payload.Response.ExternalReference == "" && payload.Response.CheckoutRequestID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "ExternalReference or CheckoutRequestID is required",
		})
	}

	result, err := h.service.HandleCallback(ctx, payload)
	switch {
	case errors.Is(err, domain.ErrUnknownTransaction):
		h.logger.Warn(ctx, "Callback ignored", "error", err)
	case err != nil:
		h.logger.Error(ctx, "Callback processing failed", "error", err)
	default:
		h.logger.Info(ctx, "Callback processed",
			"external_reference", result.Transaction.ExternalReference,
			"status", result.Status,
			"duplicate", result.Duplicate,
		)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Callback processed",
	})
}

func (h *DonationHandler) Donors(c echo.Context) error {
	ctx := c.Request().Context()

	donors, err := h.service.DonorList(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list donors",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "success",
		"donors": donors,
		"count":  len(donors),
	})
}

func (h *DonationHandler) TopDonors(c echo.Context) error {
	ctx := c.Request().Context()

	limit := service.DefaultTopDonorsLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "limit must be a positive integer",
			})
		}
		limit = parsed
	}

	donors, err := h.service.TopDonors(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to get top donors",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "success",
		"donors": donors,
	})
}
