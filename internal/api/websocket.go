package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/lane-pulse/backend/internal/models"
	"github.com/lane-pulse/backend/internal/parser"
	"github.com/lane-pulse/backend/internal/storage"
)

// WebSocket message types
const (
	// Client -> Server messages
	MsgTypeFileUpload   = "upload:file"
	MsgTypeRulesUpload  = "rules:upload"
	MsgTypeWatchSession = "session:watch"
	MsgTypePing         = "ping"

	// Server -> Client messages
	MsgTypeProgress = "progress"
	MsgTypeComplete = "complete"
	MsgTypeError    = "error"
	MsgTypePong     = "pong"
)

// WSMessage is the WebSocket message envelope
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// FileUploadPayload carries a small file in a single message
type FileUploadPayload struct {
	Name string `json:"name"`
	Data string `json:"data"` // Base64 encoded file
}

// WatchSessionPayload selects the analysis session to stream progress for
type WatchSessionPayload struct {
	SessionID string `json:"sessionId"`
}

// WSProgressResponse reports analysis progress to the client
type WSProgressResponse struct {
	Type      string  `json:"type"`
	SessionID string  `json:"sessionId,omitempty"`
	Status    string  `json:"status,omitempty"`
	Progress  float64 `json:"progress"`
	Message   string  `json:"message,omitempty"`
}

// WSCompleteResponse signals a finished upload or analysis
type WSCompleteResponse struct {
	Type     string           `json:"type"`
	FileInfo *models.FileInfo `json:"fileInfo,omitempty"`
	Result   interface{}      `json:"result,omitempty"`
}

// WSErrorResponse reports a failure to the client
type WSErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WebSocketHandler manages WebSocket connections for uploads and live
// analysis progress.
type WebSocketHandler struct {
	store      storage.Store
	sessionMgr SessionManager
	upgrader   websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(store storage.Store, sessionMgr SessionManager) *WebSocketHandler {
	return &WebSocketHandler{
		store:      store,
		sessionMgr: sessionMgr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
		},
	}
}

// HandleWebSocket upgrades the HTTP connection and runs the message loop
func (wsh *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	fmt.Println("[WebSocket] Client connected")

	wsh.sendMessage(ws, WSMessage{
		Type:      "connected",
		Timestamp: time.Now().UnixMilli(),
	})

	for {
		var msg WSMessage
		err := ws.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("[WebSocket] Connection error: %v\n", err)
			}
			break
		}

		switch msg.Type {
		case MsgTypePing:
			wsh.sendMessage(ws, WSMessage{Type: MsgTypePong, Timestamp: time.Now().UnixMilli()})
		case MsgTypeFileUpload:
			wsh.handleFileUpload(ws, msg)
		case MsgTypeRulesUpload:
			wsh.handleRulesUpload(ws, msg)
		case MsgTypeWatchSession:
			wsh.handleWatchSession(ws, msg)
		default:
			wsh.sendError(ws, "Unknown message type: "+msg.Type, "INVALID_TYPE")
		}
	}

	fmt.Println("[WebSocket] Client disconnected")
	return nil
}

// handleFileUpload saves a base64-encoded shipment file sent in one message
func (wsh *WebSocketHandler) handleFileUpload(ws *websocket.Conn, msg WSMessage) {
	var payload FileUploadPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		wsh.sendError(ws, "Invalid upload payload: "+err.Error(), "INVALID_PAYLOAD")
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		wsh.sendError(ws, "Invalid base64 data: "+err.Error(), "INVALID_DATA")
		return
	}

	info, err := wsh.store.SaveBytes(payload.Name, decoded)
	if err != nil {
		wsh.sendError(ws, "Failed to save file: "+err.Error(), "SAVE_ERROR")
		return
	}

	wsh.sendMessage(ws, WSMessage{
		Type:      MsgTypeComplete,
		Timestamp: time.Now().UnixMilli(),
		Payload: mustJSON(WSCompleteResponse{
			Type:     MsgTypeComplete,
			FileInfo: info,
		}),
	})

	fmt.Printf("[WebSocket] File uploaded: %s (%d bytes)\n", info.ID, info.Size)
}

// handleRulesUpload validates and activates an uploaded lane priority file
func (wsh *WebSocketHandler) handleRulesUpload(ws *websocket.Conn, msg WSMessage) {
	var payload FileUploadPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		wsh.sendError(ws, "Invalid rules upload payload: "+err.Error(), "INVALID_PAYLOAD")
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		wsh.sendError(ws, "Invalid base64 data: "+err.Error(), "INVALID_DATA")
		return
	}

	rules, err := parser.ParseLanePriorityFromReader(bytes.NewReader(decoded))
	if err != nil {
		wsh.sendError(ws, "Invalid YAML format: "+err.Error(), "INVALID_YAML")
		return
	}

	info, err := wsh.store.SaveBytes(payload.Name, decoded)
	if err != nil {
		wsh.sendError(ws, "Failed to save rules file: "+err.Error(), "SAVE_ERROR")
		return
	}

	wsh.sessionMgr.SetLanePriority(rules)

	wsh.sendMessage(ws, WSMessage{
		Type:      MsgTypeComplete,
		Timestamp: time.Now().UnixMilli(),
		Payload: mustJSON(WSCompleteResponse{
			Type:     MsgTypeComplete,
			FileInfo: info,
			Result: models.RulesInfo{
				ID:         info.ID,
				Name:       info.Name,
				UploadedAt: info.UploadedAt.Format(time.RFC3339),
				LaneCount:  len(rules.Lanes),
			},
		}),
	})

	fmt.Printf("[WebSocket] Lane priority uploaded: %s (%d lanes)\n", info.ID, len(rules.Lanes))
}

// handleWatchSession pushes analysis progress updates until the session
// completes or errors.
func (wsh *WebSocketHandler) handleWatchSession(ws *websocket.Conn, msg WSMessage) {
	var payload WatchSessionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		wsh.sendError(ws, "Invalid watch payload: "+err.Error(), "INVALID_PAYLOAD")
		return
	}

	if _, ok := wsh.sessionMgr.GetSession(payload.SessionID); !ok {
		wsh.sendError(ws, "Session not found: "+payload.SessionID, "SESSION_NOT_FOUND")
		return
	}

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	deadline := time.After(5 * time.Minute)
	lastProgress := -1.0
	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			sess, ok := wsh.sessionMgr.GetSession(payload.SessionID)
			if !ok {
				wsh.sendError(ws, "Session not found: "+payload.SessionID, "SESSION_NOT_FOUND")
				return
			}

			if sess.Progress != lastProgress {
				lastProgress = sess.Progress
				wsh.sendMessage(ws, WSMessage{
					Type:      MsgTypeProgress,
					ID:        payload.SessionID,
					Timestamp: time.Now().UnixMilli(),
					Payload: mustJSON(WSProgressResponse{
						Type:      MsgTypeProgress,
						SessionID: payload.SessionID,
						Status:    string(sess.Status),
						Progress:  sess.Progress,
						Message:   sess.Error,
					}),
				})
			}

			if sess.Status == models.SessionStatusComplete || sess.Status == models.SessionStatusError {
				wsh.sendMessage(ws, WSMessage{
					Type:      MsgTypeComplete,
					ID:        payload.SessionID,
					Timestamp: time.Now().UnixMilli(),
					Payload: mustJSON(WSCompleteResponse{
						Type:   MsgTypeComplete,
						Result: sess,
					}),
				})
				return
			}
		}
	}
}

// Helper methods

func (wsh *WebSocketHandler) sendMessage(ws *websocket.Conn, msg WSMessage) {
	if err := ws.WriteJSON(msg); err != nil {
		fmt.Printf("[WebSocket] Failed to send message: %v\n", err)
	}
}

func (wsh *WebSocketHandler) sendError(ws *websocket.Conn, message, code string) {
	wsh.sendMessage(ws, WSMessage{
		Type:      MsgTypeError,
		Timestamp: time.Now().UnixMilli(),
		Payload: mustJSON(WSErrorResponse{
			Type:    MsgTypeError,
			Message: message,
			Code:    code,
		}),
	})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
