package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/eaugusto/registry/pkg/dto"
	"github.com/eaugusto/registry/pkg/logging"
	"github.com/getsentry/sentry-go"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvironmentPrefix prefixes all environment variables that overwrite configuration options,
// e.g. REGISTRY_SERVER_PORT.
const EnvironmentPrefix = "REGISTRY"

// DefaultConfigurationFilePath is used when no other path is passed on the command line.
const DefaultConfigurationFilePath = "./configuration.yaml"

// Config contains the default configuration of the registry.
var (
	Config = &configuration{
		Server: server{
			Address:       "127.0.0.1",
			Port:          7300,
			Token:         "",
			DialogTimeout: 15 * time.Minute,
			TLS: TLS{
				Active:   false,
				CAFile:   "",
				CertFile: "",
				KeyFile:  "",
			},
		},
		Storage: Storage{
			Kind:      "map",
			Monitored: true,
		},
		Logger: Logger{
			Level:     "INFO",
			Formatter: dto.FormatterText,
		},
		Sentry: sentry.ClientOptions{},
		InfluxDB: InfluxDB{
			URL:          "",
			Token:        "",
			Organization: "",
			Bucket:       "",
			Stage:        "",
		},
	}
	configurationInitialized = false
	log                      = logging.GetLogger("config")
	TLSConfig                = &tls.Config{
		MinVersion:       tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{tls.CurveP521, tls.CurveP384, tls.CurveP256},
	}
	ErrConfigInitialized = errors.New("configuration is already initialized")
)

// server configures the registry webserver.
type server struct {
	Address string
	Port    int
	Token   string
	// DialogTimeout is the time a websocket dialog waits for an answer. Zero waits forever.
	DialogTimeout time.Duration `split_words:"true"`
	TLS           TLS
}

// URL returns the URL of the registry webserver.
func (s *server) URL() *url.URL {
	return parseURL(s.Address, s.Port, s.TLS.Active)
}

// TLS configures TLS on a connection.
type TLS struct {
	Active   bool
	CAFile   string
	CertFile string
	KeyFile  string
}

// Storage configures the stores of a session.
type Storage struct {
	// Kind is either "map" or "set".
	Kind      string
	Monitored bool
}

// Logger configures the used logger.
type Logger struct {
	Formatter dto.Formatter
	Level     string
}

// InfluxDB configures the usage of an Influx db monitoring.
type InfluxDB struct {
	URL          string
	Token        string
	Organization string
	Bucket       string
	Stage        string
}

// configuration contains the complete configuration of the registry.
type configuration struct {
	Server  server
	Storage Storage
	Logger  Logger
	// Sentry can only be configured by the configuration file.
	Sentry   sentry.ClientOptions `ignored:"true"`
	InfluxDB InfluxDB
}

// InitConfig merges configuration options from a configuration file and environment
// variables into the default configuration. Calls of InitConfig after the first call
// have no effect and return an error. InitConfig should be called directly after
// starting the program.
func InitConfig(configurationFilePath string) error {
	if configurationInitialized {
		return ErrConfigInitialized
	}
	configurationInitialized = true
	content := readConfigFile(configurationFilePath)
	if err := Config.mergeYaml(content); err != nil {
		return err
	}
	return Config.mergeEnvironmentVariables(EnvironmentPrefix)
}

func parseURL(address string, port int, tlsEnabled bool) *url.URL {
	scheme := "http"
	if tlsEnabled {
		scheme = "https"
	}
	return &url.URL{
		Scheme: scheme,
		Host:   fmt.Sprintf("%s:%d", address, port),
	}
}

func readConfigFile(configurationFilePath string) []byte {
	data, err := os.ReadFile(configurationFilePath)
	if err != nil {
		log.WithError(err).Info("Using default configuration...")
		return nil
	}
	return data
}

func (c *configuration) mergeYaml(content []byte) error {
	if err := yaml.Unmarshal(content, c); err != nil {
		return fmt.Errorf("could not parse configuration file: %w", err)
	}
	return nil
}

func (c *configuration) mergeEnvironmentVariables(prefix string) error {
	if err := envconfig.Process(prefix, c); err != nil {
		return fmt.Errorf("could not read configuration from environment: %w", err)
	}
	return nil
}
