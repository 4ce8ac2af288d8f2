package payment

import (
	"strconv"
	"strings"
	"unicode"
)

// MokaPayload is the CreateUserPosPayment request body. Field names follow the
// gateway contract.
type MokaPayload struct {
	DealerAuthentication  DealerAuthentication  `json:"DealerAuthentication"`
	PaymentUserPosRequest PaymentUserPosRequest `json:"PaymentUserPosRequest"`
}

type DealerAuthentication struct {
	DealerCode string `json:"DealerCode"`
	Username   string `json:"Username"`
	Password   string `json:"Password"`
	CheckKey   string `json:"CheckKey"`
}

type PaymentUserPosRequest struct {
	OtherTrxCode             string           `json:"OtherTrxCode"`
	DealerCustomerTypeID     string           `json:"DealerCustomerTypeId"`
	FullName                 string           `json:"FullName"`
	GsmNumber                string           `json:"GsmNumber"`
	Email                    string           `json:"Email"`
	IsPreAuth                string           `json:"IsPreAuth"`
	IsPoolPayment            string           `json:"IsPoolPayment"`
	IsTokenized              string           `json:"IsTokenized"`
	DealerCustomerID         string           `json:"DealerCustomerId"`
	CustomerCode             string           `json:"CustomerCode"`
	FirstName                string           `json:"FirstName"`
	LastName                 string           `json:"LastName"`
	Gender                   string           `json:"Gender"`
	BirthDate                string           `json:"BirthDate"`
	CustomerGsmNumber        string           `json:"CustomerGsmNumber"`
	CustomerEmail            string           `json:"CustomerEmail"`
	Address                  string           `json:"Address"`
	Amount                   string           `json:"Amount"`
	Currency                 string           `json:"Currency"`
	InstallmentNumber        string           `json:"InstallmentNumber"`
	SetInstallmentBy         string           `json:"SetInstallmentBy"`
	IsThreeD                 string           `json:"IsThreeD"`
	Description              string           `json:"Description"`
	RedirectURL              string           `json:"RedirectUrl"`
	CommissionByDealer       string           `json:"CommissionByDealer"`
	IsCommissionDiffByDealer string           `json:"IsCommissionDiffByDealer"`
	ReturnHash               int              `json:"ReturnHash"`
	BuyerInformation         BuyerInformation `json:"BuyerInformation"`
}

type BuyerInformation struct {
	BuyerFullName  string `json:"BuyerFullName"`
	BuyerGsmNumber string `json:"BuyerGsmNumber"`
	BuyerEmail     string `json:"BuyerEmail"`
	BuyerAddress   string `json:"BuyerAddress"`
}

// Propagate fills empty customer and buyer fields from the primary name, gsm
// and email fields. It returns the updated request and the names of the
// fields it filled.
func Propagate(req PaymentRequest) (PaymentRequest, []string) {
	var filled []string

	if req.FullName != "" && (req.FirstName == "" || req.LastName == "") {
		first, rest := splitFullName(req.FullName)
		if req.FirstName == "" {
			req.FirstName = first
			filled = append(filled, "first_name")
		}
		if req.LastName == "" && rest != "" {
			req.LastName = rest
			filled = append(filled, "last_name")
		}
	}

	if req.FullName != "" && req.BuyerFullName == "" {
		req.BuyerFullName = req.FullName
		filled = append(filled, "buyer_full_name")
	}

	if req.GsmNumber != "" {
		if req.CustomerGsmNumber == "" {
			req.CustomerGsmNumber = req.GsmNumber
			filled = append(filled, "customer_gsm_number")
		}
		if req.BuyerGsmNumber == "" {
			req.BuyerGsmNumber = req.GsmNumber
			filled = append(filled, "buyer_gsm_number")
		}
	}

	if req.Email != "" {
		if req.CustomerEmail == "" {
			req.CustomerEmail = req.Email
			filled = append(filled, "customer_email")
		}
		if req.BuyerEmail == "" {
			req.BuyerEmail = req.Email
			filled = append(filled, "buyer_email")
		}
	}

	return req, filled
}

// splitFullName splits on the first run of whitespace.
func splitFullName(fullName string) (string, string) {
	name := strings.TrimSpace(fullName)
	i := strings.IndexFunc(name, unicode.IsSpace)
	if i < 0 {
		return name, ""
	}
	return name[:i], strings.TrimSpace(name[i:])
}

// Normalize validates req, applies field propagation and assembles the
// gateway payload signed with creds. It also returns the names of the fields
// propagation filled.
func Normalize(creds Credentials, req PaymentRequest) (*MokaPayload, []string, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, nil, err
	}

	checkKey, err := Sign(creds)
	if err != nil {
		return nil, nil, err
	}
	if creds.CustomerTypeID <= 0 {
		return nil, nil, NewAuthenticationError("Missing required credentials: customer_type_id")
	}

	req, filled := Propagate(req)
	return buildPayload(creds, checkKey, req), filled, nil
}

func buildPayload(creds Credentials, checkKey string, req PaymentRequest) *MokaPayload {
	itoa := strconv.Itoa
	return &MokaPayload{
		DealerAuthentication: DealerAuthentication{
			DealerCode: creds.DealerCode,
			Username:   creds.Username,
			Password:   creds.Password,
			CheckKey:   checkKey,
		},
		PaymentUserPosRequest: PaymentUserPosRequest{
			OtherTrxCode:             req.OtherTrxCode,
			DealerCustomerTypeID:     itoa(creds.CustomerTypeID),
			FullName:                 req.FullName,
			GsmNumber:                req.GsmNumber,
			Email:                    req.Email,
			IsPreAuth:                itoa(req.IsPreAuth),
			IsPoolPayment:            itoa(req.IsPoolPayment),
			IsTokenized:              itoa(req.IsTokenized),
			DealerCustomerID:         "",
			CustomerCode:             req.CustomerCode,
			FirstName:                req.FirstName,
			LastName:                 req.LastName,
			Gender:                   "0",
			BirthDate:                req.BirthDate,
			CustomerGsmNumber:        req.CustomerGsmNumber,
			CustomerEmail:            req.CustomerEmail,
			Address:                  req.Address,
			Amount:                   strconv.FormatFloat(*req.Amount, 'f', -1, 64),
			Currency:                 req.Currency,
			InstallmentNumber:        itoa(req.InstallmentNumber),
			SetInstallmentBy:         itoa(req.SetInstallmentBy),
			IsThreeD:                 itoa(req.IsThreeD),
			Description:              req.Description,
			RedirectURL:              req.RedirectURL,
			CommissionByDealer:       req.CommissionByDealer,
			IsCommissionDiffByDealer: itoa(req.IsCommissionDiffByDealer),
			ReturnHash:               1,
			BuyerInformation: BuyerInformation{
				BuyerFullName:  req.BuyerFullName,
				BuyerGsmNumber: req.BuyerGsmNumber,
				BuyerEmail:     req.BuyerEmail,
				BuyerAddress:   req.BuyerAddress,
			},
		},
	}
}
