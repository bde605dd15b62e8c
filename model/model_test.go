package model

import (
	"encoding/json"
	"net/url"
	"reflect"
	"testing"
)

func TestNewOnlineRequestDefaults(t *testing.T) {
	req := NewOnlineRequest(Params{})

	if !req.CanTrade || req.TokenId != "USDT" || req.CurrencyId != "RUB" || req.Amount != "30000" {
		t.Fatalf("unexpected defaults: %+v", req)
	}
	if !reflect.DeepEqual(req.Payment, []string{"64", "585"}) {
		t.Fatalf("payment = %v", req.Payment)
	}
	if req.Side != "0" || req.Size != "100" || req.Page != "1" || req.SortType != "TRADE_PRICE" || req.ItemRegion != 1 {
		t.Fatalf("unexpected fixed fields: %+v", req)
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if body["userId"] != "" || body["vaMaker"] != false || body["verificationFilter"] != float64(0) {
		t.Fatalf("unexpected body: %s", data)
	}
	if pp, ok := body["paymentPeriod"].([]any); !ok || len(pp) != 0 {
		t.Fatalf("paymentPeriod must be an empty array: %s", data)
	}
}

func TestNewOnlineRequestFromQuery(t *testing.T) {
	v, err := url.ParseQuery("canTrade=0&tokenId=BTC&currencyId=USD&payment=1&payment=2&amount=500")
	if err != nil {
		t.Fatal(err)
	}
	req := NewOnlineRequest(ParamsFromValues(v))

	if req.CanTrade || req.TokenId != "BTC" || req.CurrencyId != "USD" || req.Amount != "500" {
		t.Fatalf("query not applied: %+v", req)
	}
	if !reflect.DeepEqual(req.Payment, []string{"1", "2"}) {
		t.Fatalf("payment = %v", req.Payment)
	}
}

func TestDefaultPaymentNotShared(t *testing.T) {
	req := NewOnlineRequest(Params{})
	req.Payment[0] = "changed"
	if DefaultPayment[0] != "64" {
		t.Fatal("default payment list was mutated")
	}
}

func TestSecureToken(t *testing.T) {
	if _, ok := (Params{}).SecureToken(); ok {
		t.Fatal("expected no token")
	}
	token, ok := Params{ParamSecureToken: {"abc"}}.SecureToken()
	if !ok || token != "abc" {
		t.Fatalf("token = %q, %v", token, ok)
	}
}

func TestSellerDecodesLooseFields(t *testing.T) {
	data := `{
		"userMaskId": "s1",
		"nickName": "bob",
		"isOnline": false,
		"lastLogoutTime": "1700000000",
		"price": "95.5",
		"minAmount": 1000,
		"maxAmount": "50000",
		"remark": "hi",
		"tradingPreferenceSet": {
			"hasCompleteRateDay30": 1,
			"completeRateDay30": "95",
			"hasOrderFinishNumberDay30": true,
			"orderFinishNumberDay30": 20
		}
	}`
	var s Seller
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.LastLogoutTime != 1700000000 || s.Price != "95.5" || s.MinAmount != "1000" {
		t.Fatalf("unexpected seller: %+v", s)
	}

	v, enforced := s.TradingPreferenceSet.Threshold(ParamCompleteRateDay30)
	if !enforced || v.IntPart() != 95 {
		t.Fatalf("completeRateDay30 = %v, %v", v, enforced)
	}
	v, enforced = s.TradingPreferenceSet.Threshold(ParamOrderFinishNumberDay30)
	if !enforced || v.IntPart() != 20 {
		t.Fatalf("orderFinishNumberDay30 = %v, %v", v, enforced)
	}
}

func TestSellerNullPreferences(t *testing.T) {
	var s Seller
	if err := json.Unmarshal([]byte(`{"nickName":"x","tradingPreferenceSet":null}`), &s); err != nil {
		t.Fatal(err)
	}
	if s.TradingPreferenceSet != nil {
		t.Fatal("expected nil preference set")
	}
}

func TestPaymentCatalog(t *testing.T) {
	c := PaymentCatalog{Raw: json.RawMessage(`{"paymentConfigVo":[{"paymentType":64,"paymentName":"Raiffeisen"},{"paymentName":"broken"},{"paymentType":"585","paymentName":"Sber"}]}`)}
	got := c.Payments()
	want := []Payment{{Type: "64", Name: "Raiffeisen"}, {Type: "585", Name: "Sber"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("payments = %+v", got)
	}
}
