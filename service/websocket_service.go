package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arthamitra/finassist-be/types"
)

// WebSocketService serves the chat pipeline over a websocket connection
// for clients that keep a conversation open.
type WebSocketService struct {
	rag      *RAGService
	upgrader websocket.Upgrader
}

func NewWebSocketService(rag *RAGService) *WebSocketService {
	return &WebSocketService{
		rag: rag,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

// HandleChat upgrades the request and answers chat payloads until the
// client disconnects. The requesting user's identity comes from the
// authenticated request, never from the payload.
func (s *WebSocketService) HandleChat(userID string, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			s.writeError(conn, "Invalid message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			conn.WriteJSON(types.WebsocketResponse{Type: types.TypeWebsocketPong})

		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, "Invalid payload")
				continue
			}
			var chat types.WebsocketChatPayload
			if err := json.Unmarshal(payloadBytes, &chat); err != nil {
				s.writeError(conn, "Invalid chat payload")
				continue
			}

			conn.WriteJSON(types.WebsocketResponse{
				Type:    types.TypeWebsocketProcessing,
				Payload: "Generating response...",
			})
			resp := s.rag.Respond(ctx, userID, chat.Message)
			if err := conn.WriteJSON(types.WebsocketResponse{
				Type:    types.TypeWebsocketChat,
				Payload: resp,
			}); err != nil {
				log.Println("Write error:", err)
				return
			}

		default:
			s.writeError(conn, "Unknown message type")
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	conn.WriteJSON(types.WebsocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: message,
	})
}
