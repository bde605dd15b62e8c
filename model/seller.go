package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Int accepts a JSON number, numeric string or bool.
type Int int64

func (i *Int) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			*i = 0
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		*i = Int(d.IntPart())
		return nil
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return err
	}
	*i = Int(n)
	return nil
}

// Text accepts a JSON string or a bare number and keeps its literal text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

func (t Text) String() string {
	return string(t)
}

type TradingPreferenceSet struct {
	HasUnPostAd               Int             `json:"hasUnPostAd"`
	IsKyc                     Int             `json:"isKyc"`
	IsEmail                   Int             `json:"isEmail"`
	IsMobile                  Int             `json:"isMobile"`
	HasRegisterTime           Int             `json:"hasRegisterTime"`
	RegisterTimeThreshold     Int             `json:"registerTimeThreshold"`
	HasCompleteRateDay30      Int             `json:"hasCompleteRateDay30"`
	CompleteRateDay30         decimal.Decimal `json:"completeRateDay30"`
	HasOrderFinishNumberDay30 Int             `json:"hasOrderFinishNumberDay30"`
	OrderFinishNumberDay30    decimal.Decimal `json:"orderFinishNumberDay30"`
	HasNationalLimit          Int             `json:"hasNationalLimit"`
}

// Threshold reports whether the seller enforces the preference named key and its value.
// Unknown keys are never enforced.
func (p *TradingPreferenceSet) Threshold(key string) (decimal.Decimal, bool) {
	switch key {
	case ParamCompleteRateDay30:
		return p.CompleteRateDay30, p.HasCompleteRateDay30 == 1
	case ParamOrderFinishNumberDay30:
		return p.OrderFinishNumberDay30, p.HasOrderFinishNumberDay30 == 1
	}
	return decimal.Zero, false
}

// Seller is one listing of the online-sellers query.
type Seller struct {
	Id                   string                `json:"id"`
	AccountId            Text                  `json:"accountId"`
	UserId               Text                  `json:"userId"`
	UserMaskId           string                `json:"userMaskId"`
	NickName             string                `json:"nickName"`
	IsOnline             bool                  `json:"isOnline"`
	LastLogoutTime       Int                   `json:"lastLogoutTime"`
	TokenId              string                `json:"tokenId"`
	CurrencyId           string                `json:"currencyId"`
	Side                 Int                   `json:"side"`
	Price                Text                  `json:"price"`
	LastQuantity         Text                  `json:"lastQuantity"`
	Quantity             Text                  `json:"quantity"`
	MinAmount            Text                  `json:"minAmount"`
	MaxAmount            Text                  `json:"maxAmount"`
	Payments             []string              `json:"payments"`
	Remark               string                `json:"remark"`
	RecentOrderNum       Int                   `json:"recentOrderNum"`
	RecentExecuteRate    Int                   `json:"recentExecuteRate"`
	TradingPreferenceSet *TradingPreferenceSet `json:"tradingPreferenceSet"`
}

// OnlineItems is the decoded result.items array together with its raw bytes.
type OnlineItems struct {
	Sellers []Seller
	Raw     json.RawMessage
}
