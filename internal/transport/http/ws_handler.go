package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"learnhub-quiz/internal/app"
	"learnhub-quiz/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	progress *app.ProgressService
	upgrader websocket.Upgrader
}

// NewWSHandler builds the quiz socket handler. progress may be nil, which disables bookmarks.
func NewWSHandler(service *app.QuizService, progress *app.ProgressService) *WSHandler {
	return &WSHandler{
		service:  service,
		progress: progress,
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

type startPayload struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

type selectPayload struct {
	Option int `json:"option"`
}

// nextPayload pins the advance to the question the client was looking at.
type nextPayload struct {
	AttemptID string `json:"attemptId"`
	Index     *int   `json:"index"`
}

type retakePayload struct {
	Count int `json:"count"`
}

type bookmarkPayload struct {
	QuestionID string `json:"questionId"`
}

type bookmarksResult struct {
	QuestionID string   `json:"questionId"`
	Bookmarked bool     `json:"bookmarked"`
	Bookmarks  []string `json:"bookmarks"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	h.service.Attach(ctx, userID)
	updates, cancel, err := h.service.Subscribe(ctx, userID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer func() {
		cancel()
		h.service.Leave(context.Background(), userID)
	}()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		// the result goes out once per attempt even though every later snapshot carries it
		var reported string
		forward := func(msg outboundMessage[any]) bool {
			select {
			case send <- msg:
				return true
			case <-closeSignals:
				return false
			}
		}
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				if !forward(outboundMessage[any]{Type: "session", Payload: update}) {
					return
				}
				if update.State == domain.StateComplete && update.Result != nil && update.AttemptID != reported {
					reported = update.AttemptID
					if !forward(outboundMessage[any]{Type: "complete", Payload: *update.Result}) {
						return
					}
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.handle(ctx, userID, inbound); ok {
			send <- msg
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// handle runs one inbound command. Session changes reach the client through the
// subscription, so only errors and bookmark results are answered directly.
func (h *WSHandler) handle(ctx context.Context, userID string, inbound inboundMessage) (outboundMessage[any], bool) {
	var err error
	switch inbound.Type {
	case "start":
		var payload startPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid start payload"), true
		}
		_, err = h.service.Start(ctx, userID, payload.Subject, payload.Count)
	case "select":
		var payload selectPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid select payload"), true
		}
		_, err = h.service.SelectAnswer(ctx, userID, payload.Option)
	case "next":
		var payload nextPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid next payload"), true
		}
		if payload.Index == nil {
			_, err = h.service.Advance(ctx, userID)
		} else {
			_, err = h.service.AdvanceFrom(ctx, userID, payload.AttemptID, *payload.Index)
		}
	case "retake":
		var payload retakePayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid retake payload"), true
		}
		_, err = h.service.Retake(ctx, userID, payload.Count)
	case "exit":
		_, err = h.service.Exit(ctx, userID)
	case "bookmark":
		var payload bookmarkPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil || payload.QuestionID == "" {
			return errorMessage("invalid bookmark payload"), true
		}
		if h.progress == nil {
			return errorMessage("bookmarks unavailable"), true
		}
		bookmarked, err := h.progress.ToggleBookmark(ctx, userID, payload.QuestionID)
		if err != nil {
			return errorMessage(err.Error()), true
		}
		bookmarks, err := h.progress.Bookmarks(ctx, userID)
		if err != nil {
			return errorMessage(err.Error()), true
		}
		return outboundMessage[any]{Type: "bookmarks", Payload: bookmarksResult{
			QuestionID: payload.QuestionID,
			Bookmarked: bookmarked,
			Bookmarks:  bookmarks,
		}}, true
	default:
		return errorMessage("unsupported message type"), true
	}
	if err != nil {
		return errorMessage(err.Error()), true
	}
	return outboundMessage[any]{}, false
}

func decodePayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}
