package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arthamitra/finassist-be/middleware"
	"github.com/arthamitra/finassist-be/service"
	"github.com/arthamitra/finassist-be/types"
)

// defaultSuggestions is the static starter list shown before the user
// has asked anything.
var defaultSuggestions = []string{
	"What's my current financial summary?",
	"How much did I spend on food this month?",
	"Show me my investment portfolio performance",
	"Which loan should I pay off first?",
	"How can I improve my savings rate?",
	"What's my expense breakdown by category?",
	"Am I on track to meet my financial goals?",
	"Give me tax saving investment recommendations",
	"How much emergency fund do I need?",
	"Should I invest more in mutual funds or stocks?",
}

type ChatHandler struct {
	rag *service.RAGService
	ws  *service.WebSocketService
}

func NewChatHandler(rag *service.RAGService, ws *service.WebSocketService) *ChatHandler {
	return &ChatHandler{
		rag: rag,
		ws:  ws,
	}
}

func (h *ChatHandler) HandleChatMessage(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}

	resp := h.rag.Respond(c.Request.Context(), middleware.UserID(c), req.Message)
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   resp,
	})
}

func (h *ChatHandler) HandleSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   gin.H{"suggestions": defaultSuggestions},
	})
}

func (h *ChatHandler) HandleChatWS(c *gin.Context) {
	h.ws.HandleChat(middleware.UserID(c), c.Writer, c.Request)
}
