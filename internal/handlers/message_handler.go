package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campusmarket/internal/models"
	"campusmarket/internal/services"
)

type MessageHandler struct {
	messages services.MessageService
}

func NewMessageHandler(messages services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// @Summary      Send a message
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        message  body      models.SendMessageRequest  true  "Message"
// @Success      201  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	m, err := h.messages.Send(currentUser(c).ID, req.ReceiverID, req.Body, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrReceiverNotFound) {
			respondError(c, http.StatusNotFound, "Receiver not found")
			return
		}
		log.Printf("[messages][send] failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Failed to send message")
		return
	}
	respondSuccess(c, http.StatusCreated, "Message sent successfully", gin.H{"message": m})
}

// @Summary      List own messages
// @Tags         Messages
// @Produce      json
// @Security     BearerAuth
// @Param        participant_id  query  int  false  "Narrow to one conversation"
// @Success      200  {object}  map[string]interface{}
// @Router       /messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	var participantID *int
	if v := c.Query("participant_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			respondFieldErrors(c, map[string][]string{
				"participant_id": {"The participant id must be an integer."},
			})
			return
		}
		participantID = &id
	}
	limit := queryInt(c, "limit", defaultPageSize)
	offset := queryInt(c, "offset", 0)

	msgs, err := h.messages.List(currentUser(c).ID, participantID, limit, offset)
	if err != nil {
		log.Printf("[messages][list] failed: err=%v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"messages": msgs})
}
