package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/UltraPon/SellUp/app/apperrors"
	"github.com/UltraPon/SellUp/app/helpers"
	"github.com/UltraPon/SellUp/app/models"
	"github.com/UltraPon/SellUp/app/repositories"
)

const timeLayout = time.RFC3339

type MessageHandler struct {
	Base
	messages repositories.MessageRepositoryImpl
	users    repositories.UserRepositoryImpl
}

func NewMessageHandler(base Base, messages repositories.MessageRepositoryImpl, users repositories.UserRepositoryImpl) *MessageHandler {
	return &MessageHandler{Base: base, messages: messages, users: users}
}

type conversationUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type conversation struct {
	User        conversationUser `json:"user"`
	LastMessage models.Message   `json:"last_message"`
}

// Thread lists the messages exchanged with ?user_id=, oldest first.
// Without an interlocutor the thread is empty.
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	otherID, ok := helpers.ParseID(r.URL.Query().Get("user_id"))
	if !ok {
		h.json(w, http.StatusOK, []models.Message{})
		return
	}
	messages, err := h.messages.Thread(r.Context(), mustUser(r).ID, otherID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, messages)
}

func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	me := mustUser(r)
	latest, err := h.messages.Conversations(r.Context(), me.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]conversation, 0, len(latest))
	for _, m := range latest {
		other := m.Sender
		if m.SenderID == me.ID {
			other = m.Receiver
		}
		out = append(out, conversation{
			User:        conversationUser{ID: other.ID, Username: other.Username},
			LastMessage: m,
		})
	}
	h.json(w, http.StatusOK, out)
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Receiver uint   `json:"receiver" validate:"required"`
		Content  string `json:"content" validate:"required"`
	}
	if err := helpers.DecodeJSON(r, h.Validator, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		h.fail(w, r, apperrors.ValidationField("content", "message must not be blank"))
		return
	}
	sender := mustUser(r)
	if req.Receiver == sender.ID {
		h.fail(w, r, apperrors.ValidationField("receiver", "you cannot message yourself"))
		return
	}
	receiver, err := h.users.FindByID(r.Context(), req.Receiver)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if receiver == nil {
		h.fail(w, r, apperrors.ValidationField("receiver", "user does not exist"))
		return
	}

	message := &models.Message{SenderID: sender.ID, ReceiverID: receiver.ID, Content: req.Content}
	if err := h.messages.Create(r.Context(), message); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.messages.GetByID(r.Context(), message.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusCreated, created)
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r, "id", "message")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	message, err := h.messages.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if message == nil {
		h.fail(w, r, apperrors.NotFound("message"))
		return
	}
	if message.ReceiverID != mustUser(r).ID {
		h.fail(w, r, apperrors.Forbidden("only the receiver can mark a message as read"))
		return
	}
	if err := h.messages.MarkRead(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	message.IsRead = true
	h.json(w, http.StatusOK, message)
}
