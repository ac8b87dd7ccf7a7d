package es

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"docsync/logger"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

var ErrNoHosts = errors.New("es: at least one host required")

// Config describes how the client is built. Nil and empty fields leave the
// go-elasticsearch defaults untouched.
type Config struct {
	Hosts []string

	Username string
	Password string
	APIKey   string

	SSLVerification *bool
	CACert          []byte

	SniffOnStart *bool
	Retries      *int

	HTTPHandler        http.RoundTripper
	ConnectionPool     func([]*elastictransport.Connection, elastictransport.Selector) elastictransport.ConnectionPool
	ConnectionSelector elastictransport.Selector
	Serializer         Serializer

	// ConnectionFactory wraps the round tripper used for every connection.
	ConnectionFactory func(http.RoundTripper) http.RoundTripper

	// Endpoint is a path prefix put in front of every API path, for clusters
	// served behind a proxy under a sub path.
	Endpoint string

	// Refresh is passed as the refresh parameter on index, delete and bulk calls.
	Refresh string

	// Logging set to false disables client logging even when a logger is configured.
	Logging   *bool
	LogObject *zap.Logger
	LogPath   string
	LogLevel  string
}

func (cfg Config) loggingEnabled() bool {
	return cfg.Logging == nil || *cfg.Logging
}

// resolveLogger picks the caller's logger first, then a file logger built
// from LogPath and LogLevel. It returns nil when neither is configured.
func (cfg Config) resolveLogger() (*zap.Logger, error) {
	if !cfg.loggingEnabled() {
		return nil, nil
	}
	if cfg.LogObject != nil {
		return cfg.LogObject, nil
	}
	if cfg.LogPath != "" && cfg.LogLevel != "" {
		return logger.New(cfg.LogLevel, cfg.LogPath)
	}
	return nil, nil
}

func (cfg Config) transport() (http.RoundTripper, error) {
	rt := cfg.HTTPHandler

	if cfg.SSLVerification != nil || len(cfg.CACert) > 0 {
		base, ok := rt.(*http.Transport)
		switch {
		case rt == nil:
			base = http.DefaultTransport.(*http.Transport).Clone()
		case ok:
			base = base.Clone()
		default:
			return nil, fmt.Errorf("es: tls settings require an *http.Transport handler, got %T", rt)
		}
		if base.TLSClientConfig == nil {
			base.TLSClientConfig = &tls.Config{}
		}
		if cfg.SSLVerification != nil && !*cfg.SSLVerification {
			base.TLSClientConfig.InsecureSkipVerify = true
		}
		if len(cfg.CACert) > 0 {
			pool, err := x509.SystemCertPool()
			if err != nil {
				pool = x509.NewCertPool()
			}
			if !pool.AppendCertsFromPEM(cfg.CACert) {
				return nil, fmt.Errorf("es: unable to add CA certificate")
			}
			base.TLSClientConfig.RootCAs = pool
		}
		rt = base
	}

	if rt == nil && (cfg.ConnectionFactory != nil || cfg.Endpoint != "") {
		rt = http.DefaultTransport
	}
	if cfg.ConnectionFactory != nil {
		rt = cfg.ConnectionFactory(rt)
	}
	if prefix := strings.Trim(cfg.Endpoint, "/"); prefix != "" {
		rt = &prefixTransport{next: rt, prefix: "/" + prefix}
	}
	return rt, nil
}

func (cfg Config) clientConfig(log *zap.Logger) (elasticsearch.Config, error) {
	if len(cfg.Hosts) == 0 {
		return elasticsearch.Config{}, ErrNoHosts
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.Hosts,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
	}

	rt, err := cfg.transport()
	if err != nil {
		return elasticsearch.Config{}, err
	}
	if rt != nil {
		esCfg.Transport = rt
	}

	if cfg.SniffOnStart != nil {
		esCfg.DiscoverNodesOnStart = *cfg.SniffOnStart
	}
	if cfg.Retries != nil {
		if *cfg.Retries <= 0 {
			esCfg.DisableRetry = true
		} else {
			esCfg.MaxRetries = *cfg.Retries
		}
	}
	if cfg.ConnectionPool != nil {
		esCfg.ConnectionPoolFunc = cfg.ConnectionPool
	}
	if cfg.ConnectionSelector != nil {
		esCfg.Selector = cfg.ConnectionSelector
	}
	if log != nil {
		esCfg.Logger = &roundTripLogger{log: log}
	}

	return esCfg, nil
}

type prefixTransport struct {
	next   http.RoundTripper
	prefix string
}

func (t *prefixTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Path = t.prefix + r.URL.Path
	r.URL.RawPath = ""
	return t.next.RoundTrip(r)
}
