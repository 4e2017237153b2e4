package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/homebuddy/homebuddy-api/internal/domain"
	"github.com/homebuddy/homebuddy-api/internal/http/response"
	"github.com/homebuddy/homebuddy-api/internal/service"
	"github.com/homebuddy/homebuddy-api/pkg/logger"
)

type MessageHandler struct {
	Messages service.MessageService
}

func NewMessageHandler(messages service.MessageService) *MessageHandler {
	return &MessageHandler{Messages: messages}
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	msg, err := h.Messages.CreateMessage(r.Context(), &in)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusCreated, msg)
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	default:
		logger.ErrorContext(r.Context(), "failed to create message", "error", err)
		response.InternalError(w, "Failed to create message")
	}
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Messages.ListMessages(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list messages", "error", err)
		response.InternalError(w, "Failed to list messages")
		return
	}
	response.WriteJSON(w, http.StatusOK, msgs)
}

func (h *MessageHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid message id")
		return
	}

	msg, err := h.Messages.GetMessage(r.Context(), id)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusOK, msg)
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "Message not found")
	default:
		logger.ErrorContext(r.Context(), "failed to get message", "error", err, "message_id", id)
		response.InternalError(w, "Failed to get message")
	}
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid message id")
		return
	}

	msg, err := h.Messages.MarkRead(r.Context(), id)
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusOK, msg)
	case errors.Is(err, domain.ErrNotFound):
		response.BadRequest(w, "Message not found")
	default:
		logger.ErrorContext(r.Context(), "failed to mark message read", "error", err, "message_id", id)
		response.InternalError(w, "Failed to mark message read")
	}
}
