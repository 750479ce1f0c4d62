package databricks

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultTimeout is used when ClientConfig.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// basePath is the fixed prefix of every workspace endpoint.
const basePath = "/api/2.0/workspace"

// ClientConfig identifies the workspace and the credential used for every call.
type ClientConfig struct {
	// Host is the workspace hostname, e.g. "adb-123.4.azuredatabricks.net".
	// A scheme may be given explicitly; a bare host is reached over https.
	Host string
	// Token is a personal access token sent as a bearer credential.
	Token string
	// Timeout bounds a single HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration
}

func (c ClientConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Token, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// BaseURL returns the workspace API root, e.g. "https://host/api/2.0/workspace".
func (c ClientConfig) BaseURL() string {
	return c.hostURL() + basePath
}

func (c ClientConfig) hostURL() string {
	host := strings.TrimRight(c.Host, "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return host
}

func (c ClientConfig) timeout() time.Duration {
	if c.Timeout == 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// String omits the token.
func (c ClientConfig) String() string {
	return fmt.Sprintf("ClientConfig{BaseURL: %s, Timeout: %v}", c.BaseURL(), c.timeout())
}
