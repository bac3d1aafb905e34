// ABOUTME: Routes for chat apps: POST /api/chat appends a user and assistant turn
// ABOUTME: History is validated before the wrapped function is invoked

package webui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2389/chailab/internal/bridge"
	"github.com/2389/chailab/internal/store"
)

var errNotList = errors.New("must be a list")

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message json.RawMessage `json:"message"`
	History json.RawMessage `json:"history"`
}

// ChatResponse is the success body of POST /api/chat.
type ChatResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	History []bridge.Message `json:"history"`
}

type chatApp struct {
	*Handler
	chat *bridge.ChatInterface
}

// NewChatHandler serves chat as a chat page.
func NewChatHandler(chat *bridge.ChatInterface, opts Options) *Handler {
	cfg := chat.Config()
	h := newHandler(store.KindChat, cfg.Title, cfg.Theme, cfg, opts)
	app := &chatApp{Handler: h, chat: chat}
	h.mux.HandleFunc("POST /api/chat", app.handleChat)
	return h
}

// handleChat handles POST /api/chat.
func (a *chatApp) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	message, err := parseMessage(req.Message)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	history, err := parseHistory(req.History)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	reply, updated, err := a.chat.Execute(r.Context(), message, history)
	a.record(r, map[string]any{"message": message, "history": history}, reply, err, time.Since(start))
	if err != nil {
		a.writeCallError(w, r, err)
		return
	}

	a.writeResult(w, r, ChatResponse{Success: true, Message: reply, History: updated})
}

// parseMessage accepts a JSON string or an absent field.
func parseMessage(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", &bridge.RequestValidationError{Field: "message", Err: errors.New("must be a string")}
	}
	return msg, nil
}

// parseHistory accepts a list of {role, content} records or an absent field.
// Content that is not a string is stringified; other keys ride along in Extra.
func parseHistory(raw json.RawMessage) ([]bridge.Message, error) {
	if isNull(raw) {
		return []bridge.Message{}, nil
	}
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		var list []any
		if json.Unmarshal(raw, &list) != nil {
			return nil, &bridge.RequestValidationError{Field: "history", Err: errNotList}
		}
		return nil, &bridge.RequestValidationError{Field: "history", Err: errors.New("entries must be objects")}
	}

	history := make([]bridge.Message, 0, len(entries))
	for _, e := range entries {
		role, _ := e["role"].(string)
		var content string
		switch c := e["content"].(type) {
		case nil:
		case string:
			content = c
		default:
			content = fmt.Sprint(c)
		}
		msg := bridge.Message{Role: role, Content: content}
		for k, v := range e {
			if k == "role" || k == "content" {
				continue
			}
			if msg.Extra == nil {
				msg.Extra = make(map[string]any)
			}
			msg.Extra[k] = v
		}
		history = append(history, msg)
	}
	return history, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
