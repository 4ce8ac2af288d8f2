package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"paymentmcp/internal/payment"
	"paymentmcp/internal/pkg/utils"
)

const toolName = "create_payment_link"

const toolDescription = `Create a payment request using the configured payment provider.

Required parameters:
- amount: Payment amount

Optional parameters:
- other_trx_code: Your unique transaction code for reconciliation (default is "1")
- full_name: Full name of the customer
- gsm_number: GSM number of the customer
- email: Email address of the customer
- currency: Currency for the payment (default is "TL")
- installment_number: Number of installments (default is 0)
- is_pool_payment: Indicates if it's a pool payment (default is 0)
- is_pre_auth: Indicates if it's a pre-authorization (default is 0)
- is_tokenized: Indicates if the payment is tokenized (default is 0)
- is_three_d: Indicates if 3D secure is enabled (default is 1)
- redirect_url: URL to redirect after payment
- description: Description of the payment
- customer_code: Customer code
- first_name, last_name: Name of the customer (taken from full_name when empty)
- birth_date: Birth date of the customer
- customer_gsm_number, customer_email: Customer contact (taken from gsm_number/email when empty)
- address: Address of the customer
- set_installment_by: Method to set installment (default is 1)
- commission_by_dealer: Commission by dealer (default is "%s")
- is_commission_diff_by_dealer: Indicates if commission differs by dealer (default is 0)
- buyer_full_name, buyer_email, buyer_gsm_number, buyer_address: Buyer information

Returns:
- The payment provider response, including the URL for the payment request.
- On failure an object with "error" and "error_code". If the request fails with
  "Request failed", try again one time more.

Note: Turkish characters are fine in names and addresses.`

// PaymentLinkHandler serves the create_payment_link tool.
type PaymentLinkHandler struct {
	provider   payment.Provider
	source     payment.CredentialSource
	commission string
	logger     *zap.Logger
}

func NewPaymentLinkHandler(provider payment.Provider, source payment.CredentialSource, commissionByDealer string, logger *zap.Logger) *PaymentLinkHandler {
	if commissionByDealer == "" {
		commissionByDealer = payment.DefaultCommissionByDealer
	}
	return &PaymentLinkHandler{
		provider:   provider,
		source:     source,
		commission: commissionByDealer,
		logger:     logger,
	}
}

// Tool describes the tool and its input schema.
func (h *PaymentLinkHandler) Tool() *mcp.Tool {
	str := func(desc, def string) map[string]interface{} {
		return map[string]interface{}{"type": "string", "description": desc, "default": def}
	}
	integer := func(desc string, def int) map[string]interface{} {
		return map[string]interface{}{"type": "integer", "description": desc, "default": def}
	}

	return &mcp.Tool{
		Name:        toolName,
		Description: fmt.Sprintf(toolDescription, h.commission),
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []string{"amount"},
			"properties": map[string]interface{}{
				"amount":                       map[string]interface{}{"type": "number", "description": "Payment amount"},
				"other_trx_code":               str("Unique transaction code", "1"),
				"full_name":                    str("Full name of the customer", ""),
				"gsm_number":                   str("GSM number of the customer", ""),
				"email":                        str("Email address of the customer", ""),
				"currency":                     str("Payment currency", "TL"),
				"installment_number":           integer("Number of installments", 0),
				"is_pool_payment":              integer("Pool payment flag", 0),
				"is_pre_auth":                  integer("Pre-authorization flag", 0),
				"is_tokenized":                 integer("Tokenized payment flag", 0),
				"is_three_d":                   integer("3D secure flag", 1),
				"redirect_url":                 str("URL to redirect after payment", ""),
				"description":                  str("Description of the payment", ""),
				"customer_code":                str("Customer code", ""),
				"first_name":                   str("First name of the customer", ""),
				"last_name":                    str("Last name of the customer", ""),
				"birth_date":                   str("Birth date of the customer", ""),
				"customer_gsm_number":          str("GSM number of the customer", ""),
				"customer_email":               str("Email address of the customer", ""),
				"address":                      str("Address of the customer", ""),
				"set_installment_by":           integer("Method to set installment", 1),
				"commission_by_dealer":         str("Commission by dealer", h.commission),
				"is_commission_diff_by_dealer": integer("Commission differs by dealer flag", 0),
				"buyer_full_name":              str("Full name of the buyer", ""),
				"buyer_email":                  str("Email address of the buyer", ""),
				"buyer_gsm_number":             str("GSM number of the buyer", ""),
				"buyer_address":                str("Address of the buyer", ""),
			},
		},
	}
}

// Handle is the MCP tool handler. Failures are reported inside the result;
// the returned error is always nil.
func (h *PaymentLinkHandler) Handle(ctx context.Context, req *mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
	logger := h.logger.With(zap.String("request_id", utils.GenerateUUID()), zap.String("tool", toolName))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in create_payment_link", zap.Any("panic", r))
			result = newToolResult(errorBody(fmt.Errorf("%v", r)), true)
			err = nil
		}
	}()

	var raw json.RawMessage
	if req != nil && req.Params != nil {
		raw = req.Params.Arguments
	}

	body, failed := h.CreatePaymentLink(ctx, raw, logger)
	return newToolResult(body, failed), nil
}

// CreatePaymentLink runs one tool invocation and returns the response body
// and whether it is an error body.
func (h *PaymentLinkHandler) CreatePaymentLink(ctx context.Context, rawArgs json.RawMessage, logger *zap.Logger) (map[string]interface{}, bool) {
	req, err := h.parseRequest(rawArgs)
	if err != nil {
		logger.Warn("Invalid tool arguments", zap.Error(err))
		return errorBody(err), true
	}

	creds, err := h.source.Resolve(ctx)
	if err != nil {
		logger.Warn("Credential resolution failed", zap.Error(err))
		return errorBody(err), true
	}

	resp, err := h.provider.CreatePaymentLink(ctx, creds, req)
	if err != nil {
		logger.Error("Payment creation failed", zap.String("provider", h.provider.Name()), zap.Error(err))
		return errorBody(err), true
	}

	logger.Info("Payment link created", zap.String("provider", h.provider.Name()))
	return resp, false
}

func (h *PaymentLinkHandler) parseRequest(raw json.RawMessage) (payment.PaymentRequest, error) {
	req := payment.NewPaymentRequest(h.commission)

	args, err := decodeArguments(raw)
	if err != nil {
		return req, payment.NewValidationError("Invalid arguments: " + err.Error())
	}

	if req.Amount, err = getFloatField(args, "amount"); err != nil {
		return req, payment.NewValidationError(err.Error())
	}

	req.OtherTrxCode = getStringField(args, "other_trx_code", req.OtherTrxCode)
	req.Currency = getStringField(args, "currency", req.Currency)
	req.Description = getStringField(args, "description", "")
	req.RedirectURL = getStringField(args, "redirect_url", "")
	req.CommissionByDealer = getStringField(args, "commission_by_dealer", req.CommissionByDealer)

	req.FullName = getStringField(args, "full_name", "")
	req.GsmNumber = getStringField(args, "gsm_number", "")
	req.Email = getStringField(args, "email", "")
	req.CustomerCode = getStringField(args, "customer_code", "")
	req.FirstName = getStringField(args, "first_name", "")
	req.LastName = getStringField(args, "last_name", "")
	req.BirthDate = getStringField(args, "birth_date", "")
	req.CustomerGsmNumber = getStringField(args, "customer_gsm_number", "")
	req.CustomerEmail = getStringField(args, "customer_email", "")
	req.Address = getStringField(args, "address", "")

	req.BuyerFullName = getStringField(args, "buyer_full_name", "")
	req.BuyerEmail = getStringField(args, "buyer_email", "")
	req.BuyerGsmNumber = getStringField(args, "buyer_gsm_number", "")
	req.BuyerAddress = getStringField(args, "buyer_address", "")

	ints := []struct {
		key string
		dst *int
	}{
		{"installment_number", &req.InstallmentNumber},
		{"set_installment_by", &req.SetInstallmentBy},
		{"is_pool_payment", &req.IsPoolPayment},
		{"is_pre_auth", &req.IsPreAuth},
		{"is_tokenized", &req.IsTokenized},
		{"is_three_d", &req.IsThreeD},
		{"is_commission_diff_by_dealer", &req.IsCommissionDiffByDealer},
	}
	for _, f := range ints {
		v, err := getIntField(args, f.key, *f.dst)
		if err != nil {
			return req, payment.NewValidationError(err.Error())
		}
		*f.dst = v
	}

	return req, nil
}

// errorBody converts err into the tool's error object.
func errorBody(err error) map[string]interface{} {
	var missing *payment.MissingHeadersError
	if errors.As(err, &missing) {
		return map[string]interface{}{
			"error":            missing.Error(),
			"error_code":       missing.Err.Code,
			"received_headers": missing.ReceivedHeaders,
		}
	}

	if pe, ok := payment.AsError(err); ok {
		body := map[string]interface{}{
			"error":      pe.Message,
			"error_code": pe.Code,
		}
		if pe.StatusCode != 0 {
			body["status_code"] = pe.StatusCode
		}
		return body
	}

	return map[string]interface{}{
		"error":      "Unexpected error: " + err.Error(),
		"error_code": payment.CodeInternal,
	}
}

func newToolResult(body map[string]interface{}, isError bool) *mcp.CallToolResult {
	text, err := json.Marshal(body)
	if err != nil {
		text = []byte(`{"error":"failed to encode response","error_code":"` + payment.CodeInternal + `"}`)
		isError = true
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(text)}},
		StructuredContent: body,
		IsError:           isError,
	}
}
