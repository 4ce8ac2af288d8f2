package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"

	"paymentmcp/internal/pkg/utils"
)

// DefaultCustomerTypeID applies to environment credentials without CUSTOMER_TYPE_ID.
const DefaultCustomerTypeID = 2

// CredentialSource produces the dealer credentials for one tool call.
type CredentialSource interface {
	Resolve(ctx context.Context) (Credentials, error)
}

// Sign derives the gateway check key: hex(sha256(dealer + "MK" + username + "PD" + password)).
func Sign(c Credentials) (string, error) {
	var missing []string
	if c.DealerCode == "" {
		missing = append(missing, "dealer_code")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return "", NewAuthenticationError("Missing required credentials: " + strings.Join(missing, ", "))
	}

	sum := sha256.Sum256([]byte(c.DealerCode + "MK" + c.Username + "PD" + c.Password))
	return hex.EncodeToString(sum[:]), nil
}

// DealerConfig is the raw dealer account as read from the process environment.
type DealerConfig struct {
	DealerCode     string
	Username       string
	Password       string
	CustomerTypeID string
}

// EnvSource resolves credentials from process configuration. load is called on
// every Resolve so a configuration reload takes effect on the next call.
type EnvSource struct {
	load func() DealerConfig
}

func NewEnvSource(load func() DealerConfig) *EnvSource {
	return &EnvSource{load: load}
}

func (s *EnvSource) Resolve(_ context.Context) (Credentials, error) {
	return CredentialsFromEnv(s.load())
}

// CredentialsFromEnv converts dealer configuration into credentials, naming
// every missing environment variable on failure.
func CredentialsFromEnv(d DealerConfig) (Credentials, error) {
	var missing []string
	if d.DealerCode == "" {
		missing = append(missing, "DEALER_CODE")
	}
	if d.Username == "" {
		missing = append(missing, "USERNAME")
	}
	if d.Password == "" {
		missing = append(missing, "PASSWORD")
	}
	if len(missing) > 0 {
		return Credentials{}, NewAuthenticationError("Missing required environment variables: " + strings.Join(missing, ", "))
	}

	typeID := DefaultCustomerTypeID
	if strings.TrimSpace(d.CustomerTypeID) != "" {
		typeID = utils.ParseInt(d.CustomerTypeID, DefaultCustomerTypeID)
	}
	if typeID <= 0 {
		return Credentials{}, NewAuthenticationError("CUSTOMER_TYPE_ID must be a positive integer")
	}

	return Credentials{
		DealerCode:     d.DealerCode,
		Username:       d.Username,
		Password:       d.Password,
		CustomerTypeID: typeID,
	}, nil
}

// Accepted header spellings per credential field, in priority order.
var (
	dealerCodeHeaders     = []string{"X-Dealer-Code", "Dealer-Code", "DealerCode"}
	usernameHeaders       = []string{"X-Username", "Username"}
	passwordHeaders       = []string{"X-Password", "Password"}
	customerTypeIDHeaders = []string{"X-Customer-Type-ID", "Customer-Type-ID", "CustomerTypeId"}
)

// ResolveHeaders reads credentials from request headers. It returns false when
// any field is missing; a customer type id that is absent or not a positive
// integer counts as missing.
func ResolveHeaders(h http.Header) (Credentials, bool) {
	c := Credentials{
		DealerCode:     headerValue(h, dealerCodeHeaders),
		Username:       headerValue(h, usernameHeaders),
		Password:       headerValue(h, passwordHeaders),
		CustomerTypeID: utils.ParseInt(headerValue(h, customerTypeIDHeaders), 0),
	}
	if c.DealerCode == "" || c.Username == "" || c.Password == "" || c.CustomerTypeID <= 0 {
		return Credentials{}, false
	}
	return c, true
}

func headerValue(h http.Header, candidates []string) string {
	for _, want := range candidates {
		for key, values := range h {
			if !strings.EqualFold(key, want) {
				continue
			}
			for _, v := range values {
				if v = strings.TrimSpace(v); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// HeaderNames lists the names of the received headers, sorted. Values are
// never included.
func HeaderNames(h http.Header) []string {
	names := make([]string, 0, len(h))
	for key := range h {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// MissingHeadersError is returned by HeaderSource when the connection did not
// carry a complete set of credentials.
type MissingHeadersError struct {
	Err             *Error
	ReceivedHeaders []string
}

func (e *MissingHeadersError) Error() string {
	return e.Err.Message
}

func (e *MissingHeadersError) Unwrap() error {
	return e.Err
}

// HeaderSource resolves credentials from the headers captured when an SSE
// connection was opened. One source belongs to one connection.
type HeaderSource struct {
	header http.Header
}

func NewHeaderSource(h http.Header) *HeaderSource {
	return &HeaderSource{header: h.Clone()}
}

func (s *HeaderSource) Resolve(_ context.Context) (Credentials, error) {
	c, ok := ResolveHeaders(s.header)
	if !ok {
		e := NewAuthenticationError("Missing authentication headers: provide X-Dealer-Code, X-Username, X-Password and X-Customer-Type-ID")
		e.Code = CodeMissingAuthHeaders
		return Credentials{}, &MissingHeadersError{Err: e, ReceivedHeaders: HeaderNames(s.header)}
	}
	return c, nil
}
