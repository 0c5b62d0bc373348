package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"quiztimer-service/internal/app"
	"quiztimer-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler serves one timed play-through per websocket connection: engine
// events flow out as typed JSON envelopes, answers flow in.
type WSHandler struct {
	service    *app.GameService
	engineOpts []app.EngineOption
	upgrader   websocket.Upgrader
}

func NewWSHandler(service *app.GameService, engineOpts ...app.EngineOption) *WSHandler {
	return &WSHandler{
		service:    service,
		engineOpts: engineOpts,
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

type answerPayload struct {
	OptionIndex int `json:"optionIndex"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type statsPayload struct {
	QuestionIndex int            `json:"questionIndex"`
	TotalAnswers  int            `json:"totalAnswers"`
	Percentages   map[string]int `json:"percentages"`
}

type finishedPayload struct {
	Summary     string               `json:"summary"`
	Session     domain.GameSession   `json:"session"`
	Leaderboard []domain.GameSession `json:"leaderboard"`
}

// sender serializes event emission into the outbound channel and drops
// anything emitted after the connection winds down, so engine timer
// goroutines never block on a dead client.
type sender struct {
	mu     sync.Mutex
	closed bool
	ch     chan outboundMessage[any]
}

func newSender() *sender {
	return &sender{ch: make(chan outboundMessage[any], 32)}
}

func (s *sender) send(msg outboundMessage[any]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- msg:
	default:
		// slow client: drop rather than stall the session loop
	}
}

func (s *sender) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// ServeWS upgrades the request and runs one quiz session for the caller.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	packID := r.URL.Query().Get("packId")
	playerName := r.URL.Query().Get("name")
	if packID == "" || playerName == "" {
		http.Error(w, "missing packId or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// The session outlives the request context once play starts; persistence
	// must not be cut off by the client hanging up mid-write.
	ctx := context.Background()

	out := newSender()
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range out.ch {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	events := app.EngineEvents{
		QuestionPresented: func(v app.QuestionView) {
			out.send(outboundMessage[any]{Type: "question", Payload: v})
		},
		Tick: func(remaining int) {
			out.send(outboundMessage[any]{Type: "tick", Payload: map[string]int{"remainingSeconds": remaining}})
		},
		AnswerRevealed: func(v app.RevealView) {
			out.send(outboundMessage[any]{Type: "reveal", Payload: v})
			stats := h.service.QuestionStats(ctx, packID, v.Prompt)
			out.send(outboundMessage[any]{Type: "stats", Payload: statsPayload{
				QuestionIndex: v.Index,
				TotalAnswers:  stats.TotalAnswers,
				Percentages:   app.Percentages(stats),
			}})
		},
		SessionFinished: func(session domain.GameSession, summary string) {
			out.send(outboundMessage[any]{Type: "finished", Payload: finishedPayload{
				Summary:     summary,
				Session:     session,
				Leaderboard: h.service.Leaderboard(ctx, packID, app.DefaultLeaderboardSize),
			}})
		},
		Warning: func(err error) {
			log.Printf("session warning: %v", err)
			out.send(outboundMessage[any]{Type: "warning", Payload: errorPayload{Message: err.Error()}})
		},
	}

	engine, err := h.service.StartSession(ctx, packID, playerName, events, h.engineOpts...)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		out.close()
		<-writerDone
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				out.send(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			engine.SubmitAnswer(payload.OptionIndex)
		case "cancel":
			engine.Cancel()
		default:
			out.send(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	// Client gone: abandon anything still in flight. A finished session has
	// already been persisted; cancelling a finished engine is a no-op.
	engine.Cancel()
	out.close()
	<-writerDone
}
