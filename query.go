package mapsapi

import (
	"fmt"
	"net/url"
	"strings"
)

// outputFormat is appended to every endpoint BaseURL.
const outputFormat = "json"

// buildQuery merges the common parameters with the endpoint ones. Common
// parameters come first; the order is kept because signatures are computed
// over the raw query.
func buildQuery(common Common, endpoint Params) (Params, error) {
	params := make(Params, 0, len(endpoint)+6)
	params.AddIf("key", common.APIKey)
	params.AddIf("language", common.Language)
	params.AddIf("region", common.Region)
	if bk := common.Signing; bk != nil {
		params.AddIf("client", bk.ClientID)
		params.AddIf("channel", bk.Channel)
	}
	for _, kv := range endpoint {
		if _, dup := params.Get(kv.Key); dup {
			return nil, fmt.Errorf("mapsapi: query parameter %q set twice", kv.Key)
		}
		params = append(params, kv)
	}
	return params, nil
}

// buildURL constructs the target url for a validated request, signing it
// when a business key is configured.
func (c *Client) buildURL(req Request, common Common) (*url.URL, error) {
	scheme := "https"
	if common.DisableSSL && !req.RequiresSSL() {
		scheme = "http"
	}
	ur, err := url.Parse(scheme + "://" + req.BaseURL() + outputFormat)
	if err != nil {
		return nil, err
	}
	if c.baseURL != nil {
		ur.Scheme = c.baseURL.Scheme
		ur.Host = c.baseURL.Host
		ur.Path = strings.TrimSuffix(c.baseURL.Path, "/") + ur.Path
	}

	params, err := buildQuery(common, req.QueryParameters())
	if err != nil {
		return nil, err
	}
	ur.RawQuery = params.Encode()

	if bk := common.Signing; bk != nil {
		signature, err := signURL(bk.SigningKey, ur.Path+"?"+ur.RawQuery)
		if err != nil {
			return nil, &ValidationError{Field: "Signing.SigningKey", Msg: "malformed signing key", Err: err}
		}
		params.Add("signature", signature)
		ur.RawQuery = params.Encode()
	}

	return ur, nil
}
