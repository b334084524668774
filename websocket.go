package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/AVVKavvk/calls-qa/store"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamQuestion is a client frame on the ask stream.
type StreamQuestion struct {
	Question string `json:"question"`
}

// StreamReply is a server frame on the ask stream. Exactly one field is set.
type StreamReply struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// HandleAskStream runs a chat about one call over a WebSocket. The
// conversation history lives on the server for the life of the socket.
func (a *App) HandleAskStream(c echo.Context) error {
	callID := c.Param("id")
	ctx := c.Request().Context()

	// unknown calls are rejected before upgrading
	if _, err := a.service.Transcript(ctx, callID); errors.Is(err, store.ErrNotFound) {
		return notFound(callID)
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()
	log.Printf("[INFO] ask stream opened for %s", callID)

	chat := a.service.NewChat(callID)
	for {
		var msg StreamQuestion
		if err := ws.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[WARN] ask stream for %s closed: %v", callID, err)
			}
			return nil
		}

		var reply StreamReply
		if msg.Question == "" {
			reply.Error = "question is required"
		} else if answer, err := chat.Ask(ctx, msg.Question); err != nil {
			reply.Error = fmt.Sprintf("could not answer: %v", err)
		} else {
			reply.Answer = answer
		}

		if err := ws.WriteJSON(reply); err != nil {
			log.Printf("[ERROR] ask stream write for %s: %v", callID, err)
			return nil
		}
	}
}
