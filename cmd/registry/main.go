package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/eaugusto/registry/internal/api"
	"github.com/eaugusto/registry/internal/config"
	"github.com/eaugusto/registry/internal/dashboard"
	"github.com/eaugusto/registry/internal/dialog"
	"github.com/eaugusto/registry/internal/session"
	"github.com/eaugusto/registry/pkg/logging"
	"github.com/eaugusto/registry/pkg/monitoring"
	"github.com/eaugusto/registry/pkg/storage"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gorilla/mux"
	"github.com/urfave/cli/v2"
	"golang.org/x/sys/unix"
)

var (
	gracefulShutdownWait = 15 * time.Second
	log                  = logging.GetLogger("main")
	cancelInflux         = func() {}

	ErrServerStopped = errors.New("server stopped unexpectedly")
)

const shortRevisionLength = 7

func getVcsRevision(short bool) string {
	vcsRevision := "unknown"
	vcsModified := false

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				vcsRevision = setting.Value
			} else if setting.Key == "vcs.modified" {
				var err error
				vcsModified, err = strconv.ParseBool(setting.Value)
				if err != nil {
					vcsModified = true // fallback to true, so we can see that something is wrong
					log.WithError(err).Error("Could not parse the vcs.modified setting")
				}
			}
		}
	}

	if short && len(vcsRevision) > shortRevisionLength {
		vcsRevision = vcsRevision[:shortRevisionLength]
	}

	if vcsModified {
		return vcsRevision + "-modified"
	}
	return vcsRevision
}

func initSentry(options *sentry.ClientOptions) {
	if options.Release == "" {
		options.Release = getVcsRevision(false)
	}
	if err := sentry.Init(*options); err != nil {
		log.Errorf("sentry.Init: %s", err)
	}
}

func shutdownSentry() {
	if err := recover(); err != nil {
		sentry.CurrentHub().Recover(err)
		sentry.Flush(logging.GracefulSentryShutdown)
	}
}

// initialize prepares configuration, logging and monitoring before any command runs.
func initialize(c *cli.Context) error {
	if err := config.InitConfig(c.String("config")); errors.Is(err, config.ErrConfigInitialized) {
		log.WithError(err).Warn("Could not initialize configuration")
	} else if err != nil {
		return fmt.Errorf("could not initialize configuration: %w", err)
	}
	if err := logging.InitializeLogging(config.Config.Logger.Level, config.Config.Logger.Formatter); err != nil {
		return fmt.Errorf("could not initialize logging: %w", err)
	}
	initSentry(&config.Config.Sentry)
	cancelInflux = monitoring.InitializeInfluxDB(&config.Config.InfluxDB)
	return nil
}

func finalize(_ *cli.Context) error {
	cancelInflux()
	sentry.Flush(logging.GracefulSentryShutdown)
	return nil
}

// newSession creates the stores as configured.
func newSession(ctx context.Context) (*session.Session, error) {
	kind, err := storage.ParseKind(config.Config.Storage.Kind)
	if err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}
	s, err := session.New(ctx, session.Options{Kind: kind, Monitored: config.Config.Storage.Monitored})
	if err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}
	return s, nil
}

// runConsole runs the dashboard on the passed reader and writer until the user exits or the input ends.
func runConsole(in io.Reader, out io.Writer) cli.ActionFunc {
	return func(_ *cli.Context) error {
		defer shutdownSentry()
		ctx, cancel := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
		defer cancel()

		s, err := newSession(ctx)
		if err != nil {
			return err
		}
		err = dashboard.New(dialog.NewConsole(in, out), s).Run(ctx)
		if errors.Is(err, io.EOF) {
			log.Debug("Console input ended")
			return nil
		}
		return err
	}
}

func runServe(_ *cli.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	dialogCtx, cancelDialogs := context.WithCancel(ctx)
	defer cancelDialogs()
	server := initServer(api.NewRouter(dialogCtx, s))
	// Shutdown neither closes nor waits for hijacked websocket connections.
	server.RegisterOnShutdown(cancelDialogs)
	go runServer(server, cancel)
	return shutdownOnOSSignal(ctx, server)
}

func runServer(server *http.Server, cancel context.CancelFunc) {
	defer cancel()
	defer shutdownSentry()

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		log.WithError(err).WithField("address", server.Addr).Error("Failed listening to the socket")
		return
	}
	serveHTTPListener(server, listener)
}

func serveHTTPListener(server *http.Server, listener net.Listener) {
	log.WithField("address", listener.Addr()).Info("Serving Listener")
	var err error
	if config.Config.Server.TLS.Active {
		server.TLSConfig = config.TLSConfig
		log.WithField("CertFile", config.Config.Server.TLS.CertFile).
			WithField("KeyFile", config.Config.Server.TLS.KeyFile).
			Debug("Using TLS")
		err = server.ServeTLS(listener, config.Config.Server.TLS.CertFile, config.Config.Server.TLS.KeyFile)
	} else {
		err = server.Serve(listener)
	}

	if errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).WithField("listener", listener.Addr()).Info("Server closed")
	} else {
		log.WithError(err).WithField("listener", listener.Addr()).Error("Error during listening and serving")
	}
}

// initServer creates a server that serves the routes provided by the router.
func initServer(router *mux.Router) *http.Server {
	sentryHandler := sentryhttp.New(sentryhttp.Options{}).Handle(router)
	const readTimeout = 15 * time.Second
	const idleTimeout = 60 * time.Second

	return &http.Server{
		Addr: config.Config.Server.URL().Host,
		// A WriteTimeout would close long-running websocket dialogs.
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		Handler:           sentryHandler,
	}
}

// shutdownOnOSSignal listens for a signal from the operating system.
// When receiving a signal the server shuts down but waits up to 15 seconds to close remaining connections.
func shutdownOnOSSignal(ctx context.Context, server *http.Server) error {
	shutdownSignals := make(chan os.Signal, 1)
	signal.Notify(shutdownSignals, unix.SIGINT, unix.SIGTERM)
	defer signal.Stop(shutdownSignals)

	select {
	case <-ctx.Done():
		return ErrServerStopped
	case <-shutdownSignals:
		log.Info("Received SIGINT, shutting down...")
		gracefulCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), gracefulShutdownWait)
		defer cancel()
		if err := server.Shutdown(gracefulCtx); err != nil {
			log.WithError(err).Warn("error shutting server down")
		}
		return nil
	}
}

func getCliApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:    "registry",
		Usage:   "Registers clients and products in memory",
		Version: getVcsRevision(true),
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path of the YAML configuration file",
				Value:   config.DefaultConfigurationFilePath,
			},
		},
		Before: initialize,
		After:  finalize,
		Action: runConsole(in, out),
		Commands: []*cli.Command{
			{
				Name:   "console",
				Usage:  "Manage clients or products on the terminal",
				Action: runConsole(in, out),
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API and websocket dialogs",
				Action: runServe,
			},
		},
	}
}

func main() {
	if err := getCliApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		log.WithError(err).Fatal("Registry failed")
	}
}
