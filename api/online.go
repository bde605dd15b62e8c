package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hellodex/otcboard/logger"
	"github.com/hellodex/otcboard/model"
	"github.com/tidwall/gjson"
)

// FetchPaymentCatalog returns the result field of the payment-list query.
func (c *Client) FetchPaymentCatalog(ctx context.Context) (model.PaymentCatalog, error) {
	var result model.PaymentCatalog

	header := http.Header{}
	header.Add("Cache-Control", "no-cache")
	header.Add("Content-Type", "application/x-www-form-urlencoded")

	data, err := c.post(ctx, PaymentListPath, header, nil)
	if err != nil {
		return result, err
	}
	logger.NewStdLog(c.log, PaymentListPath, nil, data)

	if !gjson.ValidBytes(data) {
		return result, NewNetworkError(PaymentListPath, errors.New("response is not valid JSON"))
	}
	res := gjson.GetBytes(data, "result")
	if !res.Exists() {
		return result, NewNetworkError(PaymentListPath, errors.New("response has no result field"))
	}

	result.Raw = json.RawMessage(res.Raw)
	return result, nil
}

// FetchOnlineSellers queries one page of online sellers for the trade parameters in params.
// The caller's secure-token, when given, is forwarded as a cookie.
func (c *Client) FetchOnlineSellers(ctx context.Context, params model.Params) (model.OnlineItems, error) {
	var result model.OnlineItems

	header := http.Header{}
	header.Add("Content-Type", "application/json;charset=UTF-8")
	if token, ok := params.SecureToken(); ok {
		header.Add("Cookie", "secure-token="+token)
	}

	reqData := model.NewOnlineRequest(params)
	bodyBytes, err := json.Marshal(reqData)
	if err != nil {
		return result, err
	}
	c.log.Trace().RawJSON("online requestBody", bodyBytes).Send()

	data, err := c.post(ctx, OnlinePath, header, bodyBytes)
	if err != nil {
		return result, err
	}
	logger.NewStdLog(c.log, OnlinePath, bodyBytes, data)

	if !gjson.ValidBytes(data) {
		return result, NewNetworkError(OnlinePath, errors.New("response is not valid JSON"))
	}

	results := gjson.GetManyBytes(data, "ret_code", "ret_msg", "result.items")
	if !results[0].Exists() {
		return result, NewNetworkError(OnlinePath, errors.New("response has no ret_code"))
	}
	if code := results[0].Int(); code != 0 {
		c.log.Error().Func(logger.WithCategory(logger.CategoryNetwork)).
			Int64("ret_code", code).Bytes("body", data).Msg("remote reported failure")
		return result, &RemoteError{
			Endpoint: OnlinePath,
			Code:     code,
			Msg:      results[1].String(),
			Body:     data,
		}
	}

	items := results[2]
	if !items.IsArray() {
		return result, NewNetworkError(OnlinePath, errors.New("response has no result.items array"))
	}

	if err := json.Unmarshal([]byte(items.Raw), &result.Sellers); err != nil {
		return result, NewNetworkError(OnlinePath, err)
	}
	result.Raw = json.RawMessage(items.Raw)

	c.log.Debug().Func(logger.WithCategory(logger.CategoryNetwork)).
		Int("items", len(result.Sellers)).Msg("online sellers fetched")
	return result, nil
}
