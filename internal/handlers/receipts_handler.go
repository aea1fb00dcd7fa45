package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/imrishuroy/receipt-points/internal/cache"
	"github.com/imrishuroy/receipt-points/internal/metrics"
	"github.com/imrishuroy/receipt-points/internal/points"
	"github.com/imrishuroy/receipt-points/internal/receipts"
	"github.com/imrishuroy/receipt-points/internal/store"
	"github.com/imrishuroy/receipt-points/internal/validation"
)

const (
	ProcessRoute = "/receipts/process"
	PointsRoute  = "/receipts/:id/points"

	detailInvalidReceipt = "The receipt is invalid"
	detailNotFound       = "No receipt found for that id"
	detailInternal       = "Internal Server Error"
)

// EventPublisher announces stored receipts. Optional.
type EventPublisher interface {
	PublishReceiptProcessed(ctx context.Context, ev receipts.Event) error
}

// HandlerConfig groups dependencies for the receipts handler.
type HandlerConfig struct {
	Store     store.Store
	Cache     cache.Cache
	Publisher EventPublisher
	Metrics   *metrics.Metrics
	Logger    *zap.SugaredLogger
}

// ValidationOverrides makes POST /receipts/process answer 400 with a fixed message
// instead of the structured 422 every other route returns.
func ValidationOverrides() map[string]validation.Override {
	return map[string]validation.Override{
		ProcessRoute: {Status: http.StatusBadRequest, Detail: detailInvalidReceipt},
	}
}

// RegisterReceiptsRoutes registers routes for the receipts API.
// The engine must already use validation.Responder(ValidationOverrides()).
func RegisterReceiptsRoutes(r *gin.Engine, cfg HandlerConfig) {
	h := &receiptsHandler{cfg: cfg, v: validation.New()}
	if h.cfg.Logger == nil {
		h.cfg.Logger = zap.NewNop().Sugar()
	}

	r.POST(ProcessRoute, h.process)
	r.GET(PointsRoute, h.points)
}

type receiptsHandler struct {
	cfg HandlerConfig
	v   *validatorv10.Validate
}

func (h *receiptsHandler) process(c *gin.Context) {
	ctx := c.Request.Context()

	// Bind + validate request
	var req receipts.Receipt
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		h.cfg.Logger.Debugw("receipt rejected", "error", err)
		return
	}

	id, err := h.cfg.Store.Save(ctx, req)
	if err != nil {
		h.internalError(c, "failed to store receipt", err)
		return
	}
	if h.cfg.Metrics != nil {
		h.cfg.Metrics.ReceiptStored()
	}

	if h.cfg.Publisher != nil {
		ev := receipts.Event{
			Type:          receipts.EventReceiptProcessed,
			ReceiptID:     id,
			CorrelationID: c.GetHeader("X-Request-Id"),
		}
		// the receipt is already stored; a lost event only skips downstream reporting
		if err := h.cfg.Publisher.PublishReceiptProcessed(ctx, ev); err != nil {
			h.cfg.Logger.Warnw("failed to publish receipt event", "receipt_id", id, "error", err)
		}
	}

	h.cfg.Logger.Infow("receipt stored", "receipt_id", id, "items", len(req.Items))
	c.JSON(http.StatusOK, receipts.ProcessResponse{ID: id})
}

func (h *receiptsHandler) points(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if h.cfg.Cache != nil {
		cached, ok, err := h.cfg.Cache.Get(ctx, id)
		if err != nil {
			h.cfg.Logger.Warnw("points cache lookup failed", "receipt_id", id, "error", err)
		}
		if h.cfg.Metrics != nil && err == nil {
			h.cfg.Metrics.CacheLookup(ok)
		}
		if ok {
			c.JSON(http.StatusOK, receipts.PointsResponse{Points: cached})
			return
		}
	}

	r, err := h.cfg.Store.Get(ctx, id)
	if err != nil {
		h.internalError(c, "failed to load receipt", err)
		return
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": detailNotFound})
		return
	}

	score, err := points.Calculate(*r)
	if err != nil {
		// stored receipts were validated on the way in; reaching this is a bug
		h.internalError(c, "points calculation failed for stored receipt", err, "receipt_id", id)
		return
	}
	if h.cfg.Metrics != nil {
		h.cfg.Metrics.PointsComputed(score)
	}

	if h.cfg.Cache != nil {
		if err := h.cfg.Cache.Set(ctx, id, score); err != nil {
			h.cfg.Logger.Warnw("points cache store failed", "receipt_id", id, "error", err)
		}
	}

	c.JSON(http.StatusOK, receipts.PointsResponse{Points: score})
}

func (h *receiptsHandler) internalError(c *gin.Context, msg string, err error, kv ...interface{}) {
	_ = c.Error(err)
	h.cfg.Logger.Errorw(msg, append(kv, "error", err)...)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": detailInternal})
}

// NotFound answers every unmatched route.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
}
