package es

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// Serializer encodes documents and request bodies.
type Serializer interface {
	Marshal(v any) ([]byte, error)
}

type JSONSerializer struct{}

func (JSONSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

type Client struct {
	es      *elasticsearch.Client
	ser     Serializer
	refresh string
	log     *zap.Logger
}

// New builds a client from cfg.
func New(cfg Config) (*Client, error) {
	log, err := cfg.resolveLogger()
	if err != nil {
		return nil, fmt.Errorf("es logger: %w", err)
	}

	esCfg, err := cfg.clientConfig(log)
	if err != nil {
		return nil, err
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, err
	}

	var ser Serializer = JSONSerializer{}
	if cfg.Serializer != nil {
		ser = cfg.Serializer
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		es:      client,
		ser:     ser,
		refresh: cfg.Refresh,
		log:     log,
	}, nil
}

// Raw exposes the underlying go-elasticsearch client.
func (c *Client) Raw() *elasticsearch.Client {
	return c.es
}

// ResponseError is returned when the engine answers with a non 2xx status.
type ResponseError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("es error: %s %s", e.Status, string(e.Body))
}

func IsNotFound(err error) bool {
	var re *ResponseError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}

func responseError(res *esapi.Response) error {
	b, _ := io.ReadAll(res.Body)
	return &ResponseError{
		StatusCode: res.StatusCode,
		Status:     res.Status(),
		Body:       b,
	}
}

// decode closes res and decodes its body into out, or returns a
// *ResponseError when the engine reported a failure.
func decode(res *esapi.Response, out any) error {
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
