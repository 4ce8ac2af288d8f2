package handler

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"paymentmcp/internal/config"
	"paymentmcp/internal/payment"
)

// NewServer creates an MCP server exposing create_payment_link with
// credentials taken from source.
func NewServer(cfg *config.Config, provider payment.Provider, source payment.CredentialSource, logger *zap.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)

	h := NewPaymentLinkHandler(provider, source, cfg.Provider.CommissionByDealer, logger)
	server.AddTool(h.Tool(), h.Handle)
	return server
}

// EnvCredentials reads dealer credentials from the store's current
// configuration on every call.
func EnvCredentials(store *config.Store) *payment.EnvSource {
	return payment.NewEnvSource(func() payment.DealerConfig {
		return store.Current().Dealer
	})
}

// RunStdio serves a single MCP session over stdin/stdout until ctx is done
// or the client disconnects.
func RunStdio(ctx context.Context, store *config.Store, provider payment.Provider, logger *zap.Logger) error {
	server := NewServer(store.Current(), provider, EnvCredentials(store), logger)
	logger.Info("Serving MCP over stdio", zap.String("provider", provider.Name()))
	return server.Run(ctx, &mcp.StdioTransport{})
}

// NewSSEHandler returns the SSE transport handler. Every SSE connection gets
// its own MCP server bound to the headers of the request that opened it.
func NewSSEHandler(cfg *config.Config, provider payment.Provider, logger *zap.Logger) http.Handler {
	return mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		source := payment.NewHeaderSource(r.Header)
		logger.Info("SSE connection opened",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Strings("headers", payment.HeaderNames(r.Header)),
		)
		return NewServer(cfg, provider, source, logger)
	}, nil)
}
