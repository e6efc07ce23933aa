package matcher

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "http://localhost:8000/api"
	userAgent     = "spigell/doc-matcher (spigelly@gmail.com)"

	DefaultTimeout      = 30 * time.Second
	defaultMaxLogLength = 500
)

// Client talks to the Smart Document Matcher backend.
// Every call takes its own context so callers can abandon in-flight requests.
type Client struct {
	token        string
	logger       *zap.Logger
	HTTPClient   *http.Client
	UserAgent    string
	APIURL       string
	MaxLogLength int
}

func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  strings.TrimSpace(token),
		APIURL: DefaultAPIURL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:       logger,
		UserAgent:    userAgent,
		MaxLogLength: defaultMaxLogLength,
	}
}

// HasToken reports whether requests will carry a bearer token.
func (c *Client) HasToken() bool {
	return c.token != ""
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.APIURL, "/") + path
}
