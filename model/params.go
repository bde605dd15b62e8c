package model

import (
	"net/url"
)

// Query parameter names recognized by the listener.
const (
	ParamCanTrade               = "canTrade"
	ParamTokenId                = "tokenId"
	ParamCurrencyId             = "currencyId"
	ParamPayment                = "payment"
	ParamAmount                 = "amount"
	ParamSecureToken            = "secure-token"
	ParamCompleteRateDay30      = "completeRateDay30"
	ParamOrderFinishNumberDay30 = "orderFinishNumberDay30"
)

const (
	DefaultCanTrade   = "1"
	DefaultTokenId    = "USDT"
	DefaultCurrencyId = "RUB"
	DefaultAmount     = "30000"
)

var DefaultPayment = []string{"64", "585"}

// Params maps a query parameter name to every value it was given.
type Params map[string][]string

func ParamsFromValues(v url.Values) Params {
	return Params(v)
}

func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// First returns the first value of key, or def when the key is absent.
func (p Params) First(key, def string) string {
	values, ok := p[key]
	if !ok || len(values) == 0 {
		return def
	}
	return values[0]
}

// List returns all values of key, or def when the key is absent.
func (p Params) List(key string, def []string) []string {
	values, ok := p[key]
	if !ok {
		return append([]string(nil), def...)
	}
	return values
}

// OnlineRequest is the body of the online-sellers query.
type OnlineRequest struct {
	UserId             string   `json:"userId"`
	CanTrade           bool     `json:"canTrade"`
	TokenId            string   `json:"tokenId"`
	CurrencyId         string   `json:"currencyId"`
	Payment            []string `json:"payment"`
	Side               string   `json:"side"`
	Size               string   `json:"size"`
	Page               string   `json:"page"`
	Amount             string   `json:"amount"`
	VaMaker            bool     `json:"vaMaker"`
	BulkMaker          bool     `json:"bulkMaker"`
	VerificationFilter int      `json:"verificationFilter"`
	SortType           string   `json:"sortType"`
	PaymentPeriod      []int    `json:"paymentPeriod"`
	ItemRegion         int      `json:"itemRegion"`
}

// NewOnlineRequest fills the request from p, falling back to the defaults for absent keys.
func NewOnlineRequest(p Params) OnlineRequest {
	return OnlineRequest{
		UserId:             "",
		CanTrade:           p.First(ParamCanTrade, DefaultCanTrade) == "1",
		TokenId:            p.First(ParamTokenId, DefaultTokenId),
		CurrencyId:         p.First(ParamCurrencyId, DefaultCurrencyId),
		Payment:            p.List(ParamPayment, DefaultPayment),
		Side:               "0",
		Size:               "100",
		Page:               "1",
		Amount:             p.First(ParamAmount, DefaultAmount),
		VaMaker:            false,
		BulkMaker:          false,
		VerificationFilter: 0,
		SortType:           "TRADE_PRICE",
		PaymentPeriod:      []int{},
		ItemRegion:         1,
	}
}

// SecureToken returns the caller's session token, if one was passed.
func (p Params) SecureToken() (string, bool) {
	if !p.Has(ParamSecureToken) {
		return "", false
	}
	return p.First(ParamSecureToken, ""), true
}
