package payment

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignKnownVector(t *testing.T) {
	key, err := Sign(Credentials{DealerCode: "D1", Username: "U1", Password: "P1", CustomerTypeID: 2})
	require.NoError(t, err)
	// sha256("D1MKU1PDP1")
	assert.Equal(t, "da334d1a0599e533b813683e1289e351fad4ad50e003f77014118e269d85b2a5", key)
}

func TestSignIsDeterministic(t *testing.T) {
	creds := Credentials{DealerCode: "DEALER", Username: "apiuser", Password: "s3cret", CustomerTypeID: 2}

	first, err := Sign(creds)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Sign(creds)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, "9e3e99e37b344f4da3b91bdd7738c31e2df2074c075ed3e4c0e98c40f87c89d9", first)

	other, err := Sign(Credentials{DealerCode: "DEALER", Username: "apiuser", Password: "s3cret2"})
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestSignNamesEveryMissingField(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		message string
	}{
		{"dealer", Credentials{Username: "u", Password: "p"}, "Missing required credentials: dealer_code"},
		{"username", Credentials{DealerCode: "d", Password: "p"}, "Missing required credentials: username"},
		{"password", Credentials{DealerCode: "d", Username: "u"}, "Missing required credentials: password"},
		{"dealer and password", Credentials{Username: "u"}, "Missing required credentials: dealer_code, password"},
		{"all", Credentials{}, "Missing required credentials: dealer_code, username, password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := Sign(tt.creds)
			require.Error(t, err)
			assert.Empty(t, key)
			assert.True(t, IsKind(err, KindAuthentication))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Run("complete with explicit customer type", func(t *testing.T) {
		c, err := CredentialsFromEnv(DealerConfig{DealerCode: "D", Username: "U", Password: "P", CustomerTypeID: "5"})
		require.NoError(t, err)
		assert.Equal(t, Credentials{DealerCode: "D", Username: "U", Password: "P", CustomerTypeID: 5}, c)
	})

	t.Run("customer type defaults to 2 when unset", func(t *testing.T) {
		c, err := CredentialsFromEnv(DealerConfig{DealerCode: "D", Username: "U", Password: "P"})
		require.NoError(t, err)
		assert.Equal(t, 2, c.CustomerTypeID)
	})

	t.Run("customer type falls back to 2 when unparsable", func(t *testing.T) {
		c, err := CredentialsFromEnv(DealerConfig{DealerCode: "D", Username: "U", Password: "P", CustomerTypeID: "two"})
		require.NoError(t, err)
		assert.Equal(t, 2, c.CustomerTypeID)
	})

	t.Run("zero customer type is rejected", func(t *testing.T) {
		_, err := CredentialsFromEnv(DealerConfig{DealerCode: "D", Username: "U", Password: "P", CustomerTypeID: "0"})
		require.Error(t, err)
		assert.True(t, IsKind(err, KindAuthentication))
	})

	t.Run("names missing variables", func(t *testing.T) {
		_, err := CredentialsFromEnv(DealerConfig{Username: "U"})
		require.Error(t, err)
		assert.Equal(t, "Missing required environment variables: DEALER_CODE, PASSWORD", err.Error())
	})
}

func TestEnvSourceReadsOnEveryCall(t *testing.T) {
	current := DealerConfig{DealerCode: "D", Username: "U", Password: "P"}
	source := NewEnvSource(func() DealerConfig { return current })

	c, err := source.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "P", c.Password)

	current.Password = "rotated"
	c, err = source.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rotated", c.Password)
}

func TestResolveHeaders(t *testing.T) {
	t.Run("missing customer type id fails", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Dealer-Code", "D1")
		h.Set("X-Username", "U1")
		h.Set("X-Password", "P1")

		c, ok := ResolveHeaders(h)
		assert.False(t, ok)
		assert.Equal(t, Credentials{}, c)
	})

	t.Run("complete set", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Dealer-Code", "D1")
		h.Set("X-Username", "U1")
		h.Set("X-Password", "P1")
		h.Set("X-Customer-Type-ID", "3")

		c, ok := ResolveHeaders(h)
		require.True(t, ok)
		assert.Equal(t, Credentials{DealerCode: "D1", Username: "U1", Password: "P1", CustomerTypeID: 3}, c)
	})

	t.Run("alternate spellings match case-insensitively", func(t *testing.T) {
		h := http.Header{
			"dealercode":     {"D2"},
			"USERNAME":       {"U2"},
			"password":       {"P2"},
			"customertypeid": {"4"},
		}

		c, ok := ResolveHeaders(h)
		require.True(t, ok)
		assert.Equal(t, Credentials{DealerCode: "D2", Username: "U2", Password: "P2", CustomerTypeID: 4}, c)
	})

	t.Run("earlier candidate wins", func(t *testing.T) {
		h := http.Header{
			"Dealercode":       {"late"},
			"Dealer-Code":      {"middle"},
			"X-Dealer-Code":    {"first"},
			"X-Username":       {"U"},
			"X-Password":       {"P"},
			"Customer-Type-Id": {"2"},
		}

		c, ok := ResolveHeaders(h)
		require.True(t, ok)
		assert.Equal(t, "first", c.DealerCode)
	})

	t.Run("empty preferred header falls through", func(t *testing.T) {
		h := http.Header{
			"X-Dealer-Code":      {""},
			"Dealer-Code":        {"D3"},
			"X-Username":         {"U"},
			"X-Password":         {"P"},
			"X-Customer-Type-Id": {"2"},
		}

		c, ok := ResolveHeaders(h)
		require.True(t, ok)
		assert.Equal(t, "D3", c.DealerCode)
	})

	t.Run("non-numeric customer type id counts as missing", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Dealer-Code", "D1")
		h.Set("X-Username", "U1")
		h.Set("X-Password", "P1")
		h.Set("X-Customer-Type-ID", "abc")

		_, ok := ResolveHeaders(h)
		assert.False(t, ok)
	})
}

func TestHeaderSourceMissingReportsNamesNotValues(t *testing.T) {
	h := http.Header{}
	h.Set("X-Dealer-Code", "D1")
	h.Set("X-Password", "topsecret")
	h.Set("Accept", "text/event-stream")

	_, err := NewHeaderSource(h).Resolve(context.Background())
	require.Error(t, err)

	var missing *MissingHeadersError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, CodeMissingAuthHeaders, missing.Err.Code)
	assert.Equal(t, []string{"Accept", "X-Dealer-Code", "X-Password"}, missing.ReceivedHeaders)
	assert.NotContains(t, err.Error(), "topsecret")
	assert.True(t, IsKind(err, KindAuthentication))
}

func TestHeaderSourceIsolatedFromCallerMutation(t *testing.T) {
	h := http.Header{}
	h.Set("X-Dealer-Code", "D1")
	h.Set("X-Username", "U1")
	h.Set("X-Password", "P1")
	h.Set("X-Customer-Type-ID", "2")

	source := NewHeaderSource(h)
	h.Del("X-Password")

	c, err := source.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "P1", c.Password)
}

func TestCredentialsStringOmitsPassword(t *testing.T) {
	c := Credentials{DealerCode: "D", Username: "U", Password: "hunter2", CustomerTypeID: 2}
	assert.NotContains(t, c.String(), "hunter2")
	assert.Contains(t, c.String(), "password_len=7")
}
