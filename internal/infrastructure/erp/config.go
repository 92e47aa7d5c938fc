package erp

import (
	"errors"
	"strings"
	"time"
)

// Defaults for the ERP client
const (
	DefaultTimeout          = 30 * time.Second
	DefaultMaxResponseBytes = 5 * 1024 * 1024
	DefaultService          = "createSalesDocument"
)

// Errors for ERP configuration
var (
	ErrConfigMissingBaseURL  = errors.New("erp: base url is required")
	ErrConfigMissingUsername = errors.New("erp: username is required")
	ErrConfigMissingPassword = errors.New("erp: password is required")
	ErrConfigMissingSeries   = errors.New("erp: document series is required")
)

// Config holds connection settings for the ERP web service.
// Credentials come from process configuration only.
type Config struct {
	// BaseURL is the full endpoint the document is posted to
	BaseURL string
	// Service is the web-service operation name sent in the payload
	Service  string
	Username string
	Password string
	AppID    string
	Company  string
	Branch   string
	// Series is the document series used when the caller does not pick one
	Series string
	// Timeout bounds the single outbound call
	Timeout time.Duration
	// MaxResponseBytes caps how much of the response body is read
	MaxResponseBytes int64
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.Username == "" {
		return ErrConfigMissingUsername
	}
	if c.Password == "" {
		return ErrConfigMissingPassword
	}
	if c.Series == "" {
		return ErrConfigMissingSeries
	}
	if c.Service == "" {
		c.Service = DefaultService
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = DefaultMaxResponseBytes
	}
	return nil
}
