package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/notifyhub/decision-notifier/internal/service"
)

// EventHandler feeds Lambda-shaped event batches to the pipeline stages so
// both can run behind a plain HTTP server.
type EventHandler struct {
	relay    *service.RelayService
	dispatch *service.DispatchService
	logger   *zap.Logger
}

func NewEventHandler(relay *service.RelayService, dispatch *service.DispatchService, logger *zap.Logger) *EventHandler {
	return &EventHandler{relay: relay, dispatch: dispatch, logger: logger}
}

// Relay handles POST /api/v1/relay
//
// @Summary  Relay an SQS event batch of decision events to the topic
// @Tags     pipeline
// @Accept   json
// @Produce  json
// @Param    body  body      events.SQSEvent  true  "SQS event"
// @Success  200   {object}  events.SQSEventResponse
// @Failure  400   {object}  map[string]string
// @Router   /api/v1/relay [post]
func (h *EventHandler) Relay(w http.ResponseWriter, r *http.Request) {
	var ev events.SQSEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.relay.HandleSQSEvent(r.Context(), ev)
	if err != nil {
		h.logger.Error("relay batch failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Dispatch handles POST /api/v1/dispatch
//
// @Summary  Send emails for an SNS event batch of notification payloads
// @Tags     pipeline
// @Accept   json
// @Produce  json
// @Param    body  body      events.SNSEvent  true  "SNS event"
// @Success  200   {object}  service.DispatchResult
// @Failure  422   {object}  service.DispatchResult
// @Failure  502   {object}  service.DispatchResult
// @Router   /api/v1/dispatch [post]
func (h *EventHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var ev events.SNSEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.dispatch.HandleSNSEvent(r.Context(), ev)
	if err != nil {
		h.logger.Warn("dispatch batch had failures", zap.Error(err))
	}
	respondJSON(w, statusFor(err), res)
}
