package payment

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"paymentmcp/internal/pkg/httpclient"
)

const (
	mokaProductionURL = "https://service.mokaunited.com"
	mokaTestURL       = "https://service.refmokaunited.com"

	createUserPosPaymentPath = "/PaymentUserPos/CreateUserPosPayment"

	userAgent = "payment-mcp/moka"
)

// MokaProvider implements the Provider interface for Moka United.
type MokaProvider struct {
	baseURL string
	client  *httpclient.Client
	logger  *zap.Logger
}

func NewMokaProvider(settings Settings, logger *zap.Logger) *MokaProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &MokaProvider{
		baseURL: mokaBaseURL(settings),
		client:  httpclient.New().WithHeader("User-Agent", userAgent),
		logger:  logger.Named("moka"),
	}
	m.logger.Info("Moka provider initialized", zap.String("base_url", m.baseURL))
	return m
}

func mokaBaseURL(s Settings) string {
	if s.BaseURL != "" {
		return strings.TrimRight(s.BaseURL, "/")
	}
	if s.Sandbox {
		return mokaTestURL
	}
	return mokaProductionURL
}

func (m *MokaProvider) Name() string {
	return "moka"
}

func (m *MokaProvider) endpoint() string {
	return m.baseURL + createUserPosPaymentPath
}

func (m *MokaProvider) CreatePaymentLink(ctx context.Context, creds Credentials, req PaymentRequest) (map[string]interface{}, error) {
	payload, filled, err := Normalize(creds, req)
	if err != nil {
		if IsKind(err, KindValidation) {
			m.logger.Warn("Payment request rejected", zap.Error(err))
		} else {
			m.logger.Error("Payment creation failed", zap.Error(err))
		}
		return nil, err
	}
	for _, field := range filled {
		m.logger.Debug("Auto-populated field", zap.String("field", field))
	}

	m.logger.Info("Creating payment request", zap.Float64("amount", *req.Amount))
	m.logger.Debug("Gateway request",
		zap.String("url", m.endpoint()),
		zap.String("other_trx_code", req.OtherTrxCode),
		zap.String("dealer_code", creds.DealerCode),
		zap.Int("password_len", len(creds.Password)),
	)

	resp, err := m.send(ctx, payload)
	if err != nil {
		m.logger.Error("Payment creation failed", zap.Error(err))
		return nil, err
	}

	m.logger.Info("Payment request created successfully")
	return resp, nil
}

// send performs a single POST to the gateway.
func (m *MokaProvider) send(ctx context.Context, payload *MokaPayload) (map[string]interface{}, error) {
	resp, err := m.client.PostJSON(ctx, m.endpoint(), payload)
	if err != nil {
		return nil, NewNetworkError(err)
	}
	if !resp.IsSuccess() {
		return nil, NewStatusError(resp.StatusCode, string(resp.Body))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, NewProviderError("Request processing error: "+err.Error(), err)
	}
	if result == nil {
		return nil, NewProviderError("Request processing error: empty response body", nil)
	}
	return result, nil
}
