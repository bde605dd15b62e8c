package model

import (
	"encoding/json"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

type Payment struct {
	Type string
	Name string
}

// PaymentCatalog is the result field of the payment-list query.
type PaymentCatalog struct {
	Raw json.RawMessage
}

// Payments lists the catalog entries that carry a payment type id.
func (c PaymentCatalog) Payments() []Payment {
	var payments []Payment
	gjson.GetBytes(c.Raw, "paymentConfigVo").ForEach(func(_, value gjson.Result) bool {
		id := value.Get("paymentType")
		if !id.Exists() {
			return true
		}
		payments = append(payments, Payment{
			Type: cast.ToString(id.Value()),
			Name: value.Get("paymentName").String(),
		})
		return true
	})
	return payments
}
