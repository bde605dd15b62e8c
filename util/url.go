package util

import (
	"fmt"
	"net/url"
	"strings"
)

const DefaultProfileBase = "https://www.bybit.com"

// GetSellerProfileUrl links to the seller's public OTC profile. The token/currency pair
// in the path is fixed to USDT/RUB.
func GetSellerProfileUrl(baseUrl, userMaskId string) string {
	if baseUrl == "" {
		baseUrl = DefaultProfileBase
	}
	return fmt.Sprintf("%s/en/fiat/trade/otc/profile/%s/USDT/RUB/item",
		strings.TrimRight(baseUrl, "/"), url.PathEscape(userMaskId))
}
