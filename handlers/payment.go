package handlers

import (
	"errors"
	"net/http"

	paymentSvc "chargebay/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentSvc is wired in main before the router starts.
var PaymentSvc paymentSvc.PaymentService

func handlePaymentError(c *gin.Context, logger *zap.Logger, err error) {
	var ve paymentSvc.ValidationError
	var pe paymentSvc.PolicyError
	var ee paymentSvc.ExternalError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, paymentSvc.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, paymentSvc.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, paymentSvc.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &pe):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": pe.Message})
	case errors.As(err, &ee):
		logger.Error("Payment processor failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": ee.Error()})
	default:
		logger.Error("Payment operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// CreatePaymentIntentHandler opens a processor-side intent for a booking.
func CreatePaymentIntentHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		BookingID string `json:"bookingId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := PaymentSvc.CreateIntent(c.Request.Context(), req.BookingID, c.GetString("userID"))
	if err != nil {
		handlePaymentError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConfirmPaymentHandler verifies a succeeded intent and completes the payment.
func ConfirmPaymentHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		BookingID       string `json:"bookingId" binding:"required"`
		PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	b, err := PaymentSvc.ConfirmPayment(c.Request.Context(), req.BookingID, req.PaymentIntentID, c.GetString("userID"))
	if err != nil {
		handlePaymentError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment confirmed", "booking": b})
}

// SetPaymentStatusHandler is the cash-on-delivery path: the client reports the
// outcome directly.
func SetPaymentStatusHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		PaymentStatus string `json:"paymentStatus" binding:"required"`
		PaymentMethod string `json:"paymentMethod" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	b, err := PaymentSvc.SetCodStatus(c.Param("id"), c.GetString("userID"), req.PaymentStatus, req.PaymentMethod)
	if err != nil {
		handlePaymentError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RefundHandler refunds a completed payment on behalf of the station owner.
func RefundHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		BookingID string `json:"bookingId" binding:"required"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := PaymentSvc.Refund(c.Request.Context(), req.BookingID, c.GetString("userID"), req.Reason)
	if err != nil {
		handlePaymentError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Refund processed", "refund": result})
}

// GetPaymentStatusHandler cross-checks the stored payment status against the
// processor's live view.
func GetPaymentStatusHandler(c *gin.Context) {
	logger := getLogger(c)

	result, err := PaymentSvc.GetStatus(c.Request.Context(), c.Param("bookingId"), c.GetString("userID"))
	if err != nil {
		handlePaymentError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetStationPaymentHistoryHandler lists a station's payment history with a
// completed-revenue aggregate.
func GetStationPaymentHistoryHandler(c *gin.Context) {
	logger := getLogger(c)

	f := bookingFilterFromQuery(c)
	bookings, total, revenue, err := PaymentSvc.History(c.GetString("userID"), c.Param("stationId"), f)
	if err != nil {
		handlePaymentError(c, logger, err)
		return
	}
	resp := pagedResponse(bookings, total, f)
	resp["revenue"] = revenue
	c.JSON(http.StatusOK, resp)
}
