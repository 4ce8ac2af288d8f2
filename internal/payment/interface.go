package payment

import (
	"context"
	"strconv"
)

// Credentials identify the dealer account a payment link is issued for.
type Credentials struct {
	DealerCode     string
	Username       string
	Password       string
	CustomerTypeID int
}

// String never includes the password.
func (c Credentials) String() string {
	return "dealer=" + c.DealerCode + " username=" + c.Username +
		" customer_type_id=" + strconv.Itoa(c.CustomerTypeID) +
		" password_len=" + strconv.Itoa(len(c.Password))
}

// PaymentRequest carries the caller-supplied fields of a payment link.
// Amount is nil when the caller omitted it.
type PaymentRequest struct {
	Amount       *float64 `json:"amount" validate:"required,gt=0,finite"`
	OtherTrxCode string   `json:"other_trx_code"`
	Currency     string   `json:"currency"`
	Description  string   `json:"description"`
	RedirectURL  string   `json:"redirect_url"`

	InstallmentNumber        int    `json:"installment_number"`
	SetInstallmentBy         int    `json:"set_installment_by"`
	IsPoolPayment            int    `json:"is_pool_payment"`
	IsPreAuth                int    `json:"is_pre_auth"`
	IsTokenized              int    `json:"is_tokenized"`
	IsThreeD                 int    `json:"is_three_d"`
	CommissionByDealer       string `json:"commission_by_dealer"`
	IsCommissionDiffByDealer int    `json:"is_commission_diff_by_dealer"`

	// Field order sets the order validation failures are reported in.
	FullName          string `json:"full_name"`
	Email             string `json:"email" validate:"omitempty,contains=@"`
	GsmNumber         string `json:"gsm_number" validate:"omitempty,gsm"`
	CustomerCode      string `json:"customer_code"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	BirthDate         string `json:"birth_date"`
	CustomerEmail     string `json:"customer_email" validate:"omitempty,contains=@"`
	CustomerGsmNumber string `json:"customer_gsm_number" validate:"omitempty,gsm"`
	Address           string `json:"address"`

	BuyerFullName  string `json:"buyer_full_name"`
	BuyerEmail     string `json:"buyer_email"`
	BuyerGsmNumber string `json:"buyer_gsm_number"`
	BuyerAddress   string `json:"buyer_address"`
}

// DefaultCommissionByDealer is used when no deployment override is configured.
const DefaultCommissionByDealer = "0"

// NewPaymentRequest returns a request populated with the tool defaults.
func NewPaymentRequest(commissionByDealer string) PaymentRequest {
	if commissionByDealer == "" {
		commissionByDealer = DefaultCommissionByDealer
	}
	return PaymentRequest{
		OtherTrxCode:       "1",
		Currency:           "TL",
		IsThreeD:           1,
		SetInstallmentBy:   1,
		CommissionByDealer: commissionByDealer,
	}
}

// Provider defines the interface for payment gateway implementations.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// CreatePaymentLink validates req, signs it with creds and forwards it
	// to the gateway. The gateway response is returned unchanged.
	CreatePaymentLink(ctx context.Context, creds Credentials, req PaymentRequest) (map[string]interface{}, error)
}
