package dialog

import (
	"fmt"
	"time"

	"github.com/eaugusto/registry/pkg/dto"
)

// Connection is the part of websocket.Conn used by Websocket. It allows mocking the connection in unit tests.
type Connection interface {
	WriteJSON(v interface{}) error
	ReadJSON(v interface{}) error
	SetReadDeadline(t time.Time) error
}

// Websocket is a Dialog with a remote client. Every prompt is sent as a dto.DialogRequest.
// Input and Choose requests are answered with a dto.DialogResponse.
type Websocket struct {
	connection Connection
	// answerTimeout bounds the time a user may take to answer a prompt. Zero disables the limit.
	answerTimeout time.Duration
}

func NewWebsocket(connection Connection, answerTimeout time.Duration) *Websocket {
	return &Websocket{connection: connection, answerTimeout: answerTimeout}
}

func (w *Websocket) Input(title, message string) (string, error) {
	response, err := w.ask(&dto.DialogRequest{Type: dto.DialogInput, Title: title, Message: message})
	if err != nil {
		return "", err
	}
	return response.Answer, nil
}

func (w *Websocket) Message(title, message string, level Level) {
	request := &dto.DialogRequest{Type: dto.DialogMessage, Title: title, Message: message, Level: string(level)}
	if err := w.connection.WriteJSON(request); err != nil {
		log.WithError(err).WithField("title", title).Warn("Could not send message")
	}
}

func (w *Websocket) Choose(title, message string, options []string) (int, error) {
	response, err := w.ask(&dto.DialogRequest{Type: dto.DialogChoose, Title: title, Message: message, Options: options})
	if err != nil {
		return -1, err
	}
	if response.Choice < 0 || response.Choice >= len(options) {
		return -1, fmt.Errorf("%w: choice %d out of range", ErrCancelled, response.Choice)
	}
	return response.Choice, nil
}

func (w *Websocket) ask(request *dto.DialogRequest) (*dto.DialogResponse, error) {
	if err := w.connection.WriteJSON(request); err != nil {
		return nil, fmt.Errorf("error sending dialog request: %w", err)
	}
	var deadline time.Time
	if w.answerTimeout > 0 {
		deadline = time.Now().Add(w.answerTimeout)
	}
	if err := w.connection.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("error setting answer deadline: %w", err)
	}
	response := &dto.DialogResponse{}
	if err := w.connection.ReadJSON(response); err != nil {
		return nil, fmt.Errorf("error reading dialog response: %w", err)
	}
	if response.Cancelled {
		return nil, ErrCancelled
	}
	return response, nil
}
