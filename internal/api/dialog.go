package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/eaugusto/registry/internal/dashboard"
	"github.com/eaugusto/registry/internal/dialog"
	"github.com/eaugusto/registry/internal/session"
	"github.com/eaugusto/registry/pkg/dto"
	"github.com/eaugusto/registry/pkg/monitoring"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// DialogController runs a dashboard for every websocket connection.
// All dashboards share the stores of the session.
type DialogController struct {
	// ctx is done when the server shuts down. Hijacked connections are not closed by http.Server.Shutdown.
	ctx           context.Context
	session       *session.Session
	answerTimeout time.Duration
}

// ConfigureRoutes configures a given router with the dialog route.
func (d *DialogController) ConfigureRoutes(router *mux.Router) {
	router.HandleFunc(DialogPath, d.connect).Methods(http.MethodGet).Name(DialogPath)
}

func (d *DialogController) connect(writer http.ResponseWriter, request *http.Request) {
	connection, err := upgradeConnection(writer, request)
	if err != nil {
		// The upgrader already responded to the client.
		return
	}
	defer closeConnection(connection)

	monitoring.AddSessionID(request, d.session.ID.String())
	log.WithContext(request.Context()).WithField(dto.KeySessionID, d.session.ID.String()).Info("Dialog connected")

	ctx, cancel := context.WithCancel(request.Context())
	defer cancel()
	stopOnShutdown := context.AfterFunc(d.ctx, cancel)
	defer stopOnShutdown()
	// A dashboard waiting for an answer only returns once the connection is closed.
	stopClosing := context.AfterFunc(ctx, func() {
		log.WithContext(ctx).Debug("Closing dialog connection")
		if err := connection.Close(); err != nil {
			log.WithError(err).Debug("Could not close connection")
		}
	})
	defer stopClosing()

	err = dashboard.New(dialog.NewWebsocket(connection, d.answerTimeout), d.session).Run(ctx)
	var closeErr *websocket.CloseError
	switch {
	case err == nil:
		log.WithContext(ctx).Debug("Dialog finished")
	case errors.As(err, &closeErr):
		log.WithContext(ctx).WithField("code", closeErr.Code).Debug("Client closed the dialog")
	case ctx.Err() != nil:
		log.WithContext(ctx).WithError(err).Info("Dialog stopped by shutdown")
	default:
		log.WithContext(ctx).WithError(err).Warn("Dialog aborted")
	}
}

// upgradeConnection upgrades a connection to a websocket.
func upgradeConnection(writer http.ResponseWriter, request *http.Request) (*websocket.Conn, error) {
	connUpgrader := websocket.Upgrader{}
	connection, err := connUpgrader.Upgrade(writer, request, nil)
	if err != nil {
		log.WithError(err).Warn("Connection upgrade failed")
		return nil, fmt.Errorf("error upgrading the connection: %w", err)
	}
	return connection, nil
}

func closeConnection(connection *websocket.Conn) {
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := connection.WriteMessage(websocket.CloseMessage, message); err != nil {
		log.WithError(err).Debug("Could not send close message")
	}
	if err := connection.Close(); err != nil {
		log.WithError(err).Debug("Could not close connection")
	}
}
