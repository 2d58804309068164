package accountclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/tendant/simple-profile/pkg/config"
	"github.com/tendant/simple-profile/pkg/errors"
	"github.com/tendant/simple-profile/pkg/signup"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client talks to the account service over HTTP. It implements
// signup.AccountService.
type Client struct {
	baseURL    string
	signupPath string
	userAgent  string
	httpClient *http.Client
}

// Option is a functional option for configuring Client
type Option func(*Client)

// New creates a Client from the account service configuration.
func New(cfg config.AccountServiceConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		signupPath: cfg.SignupPath,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	if c.signupPath == "" {
		c.signupPath = config.DefaultAccountServiceConfig().SignupPath
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithSignupPath overrides the create-account path
func WithSignupPath(path string) Option {
	return func(c *Client) {
		c.signupPath = path
	}
}

// WithTimeout sets the request timeout on the underlying http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// SignupURL is the endpoint CreateAccount posts to.
func (c *Client) SignupURL() string {
	return c.baseURL + c.signupPath
}

// CreateAccount posts the payload as multipart/form-data. Any HTTP status is
// returned as a response; an error means no response was received.
func (c *Client) CreateAccount(ctx context.Context, payload signup.Payload) (*signup.AccountResponse, error) {
	body, contentType, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.SignupURL(), body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMisconfigured, "failed to build signup request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	slog.Debug("Sending signup request", "url", req.URL.String(), "username", payload.Value(signup.FieldUsername))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTransport, "signup request failed").
			WithDetail("url", c.SignupURL())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTransport, "failed to read signup response").
			WithDetail("status", resp.StatusCode)
	}

	result := &signup.AccountResponse{StatusCode: resp.StatusCode}
	result.Body, result.Message = decodeBody(resp.Header.Get("Content-Type"), raw)
	slog.Debug("Received signup response", "status", resp.StatusCode, "content_type", resp.Header.Get("Content-Type"), "has_body", result.Body != nil)
	return result, nil
}

// encodePayload writes every field in order, then the optional picture.
func encodePayload(payload signup.Payload) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, fv := range payload.Fields {
		if err := writer.WriteField(string(fv.Field), fv.Value); err != nil {
			return nil, "", errors.InternalWrap(err, "failed to encode signup field")
		}
	}

	if pic := payload.ProfilePicture; pic != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
			"name":     signup.ProfilePictureField,
			"filename": pic.Name,
		}))
		contentType := pic.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", errors.InternalWrap(err, "failed to encode profile picture")
		}
		if _, err := part.Write(pic.Data); err != nil {
			return nil, "", errors.InternalWrap(err, "failed to encode profile picture")
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", errors.InternalWrap(err, "failed to finish signup body")
	}
	return &buf, writer.FormDataContentType(), nil
}

// decodeBody parses a JSON object body and extracts its "msg" field,
// whatever the declared content type. Bodies that are empty or not JSON
// objects yield nil.
func decodeBody(contentType string, raw []byte) (map[string]interface{}, string) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ""
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		slog.Debug("Signup response is not a JSON object", "content_type", contentType, "error", err)
		return nil, ""
	}

	var msg string
	switch v := body["msg"].(type) {
	case string:
		msg = v
	case nil:
	default:
		msg = fmt.Sprint(v)
	}
	return body, msg
}
