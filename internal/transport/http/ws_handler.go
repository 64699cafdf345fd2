package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

var (
	errUnsupportedType = errors.New("unsupported message type")
	errInvalidPayload  = errors.New("invalid payload")
)

// writeWait bounds a single frame write to a slow or stalled peer.
const writeWait = 10 * time.Second

type WSHandler struct {
	service  *app.QuizService
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, hub *Hub) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	Username string `json:"username"`
	QuizID   string `json:"quizId"`
	IsAdmin  bool   `json:"isAdmin"`
}

type chatPayload struct {
	Message  string `json:"message"`
	QuizID   string `json:"quizId"`
	Username string `json:"username"`
}

type startPayload struct {
	QuizID string `json:"quizId"`
}

type answerPayload struct {
	QuizID        string `json:"quizId"`
	QuestionIndex *int   `json:"questionIndex"`
	AnswerIndex   *int   `json:"answerIndex"`
	Username      string `json:"username"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	c := h.hub.register(connID)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range c.send {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("ws set write deadline: %v", err)
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.handle(ctx, connID, inbound); err != nil && !domain.IsSilent(err) {
			h.hub.Send(connID, domain.Event{Type: domain.EventError, Payload: domain.ErrorPayload{Message: err.Error()}})
		}
	}

	if room := h.hub.leaveRoom(connID); room != "" {
		h.service.Leave(ctx, room, connID)
	}
	h.hub.unregister(connID)
	// Drain in case the writer stopped early on a write error.
	for range c.send {
	}
	<-writerDone
}

func (h *WSHandler) handle(ctx context.Context, connID string, inbound inboundMessage) error {
	switch inbound.Type {
	case "joinRoom":
		var payload joinPayload
		if err := decode(inbound.Payload, &payload); err != nil {
			return err
		}
		if payload.QuizID == "" {
			return errors.New("quizId is required")
		}
		if previous := h.hub.joinRoom(connID, payload.QuizID); previous != "" && previous != payload.QuizID {
			h.service.Leave(ctx, previous, connID)
		}
		h.service.Join(ctx, payload.QuizID, connID, payload.Username, payload.IsAdmin)
		return nil

	case "sendMessage":
		var payload chatPayload
		if err := decode(inbound.Payload, &payload); err != nil {
			return err
		}
		h.service.Chat(ctx, payload.QuizID, payload.Username, payload.Message)
		return nil

	case "startQuiz":
		var payload startPayload
		if err := decode(inbound.Payload, &payload); err != nil {
			return err
		}
		return h.service.StartQuiz(ctx, payload.QuizID, connID)

	case "submitAnswer":
		var payload answerPayload
		if err := decode(inbound.Payload, &payload); err != nil {
			return err
		}
		if payload.QuestionIndex == nil || payload.AnswerIndex == nil {
			return errInvalidPayload
		}
		result, err := h.service.SubmitAnswer(ctx, payload.QuizID, *payload.QuestionIndex, *payload.AnswerIndex, payload.Username)
		if err != nil {
			return err
		}
		h.hub.Send(connID, domain.Event{Type: domain.EventAnswerResult, Payload: result})
		return nil

	default:
		return errUnsupportedType
	}
}

// ServeRoom writes a JSON snapshot of one room.
func (h *WSHandler) ServeRoom(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.service.Snapshot(r.PathValue("id"))
	if !ok {
		http.Error(w, domain.ErrRoomNotFound.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		log.Printf("encode room snapshot: %v", err)
	}
}

func decode(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return errInvalidPayload
	}
	return nil
}
