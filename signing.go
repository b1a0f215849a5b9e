package mapsapi

import (
	"crypto/hmac"
	"crypto/sha1" //nolint
	"encoding/base64"
	"strings"
)

// stdToURLAlphabet lets keys pasted in the standard base64 alphabet decode too.
var stdToURLAlphabet = strings.NewReplacer("+", "-", "/", "_")

// signURL returns the signature of pathAndQuery ("/maps/api/...?a=b") using
// the URL-safe base64 signing key issued with a business client id.
func signURL(signingKey, pathAndQuery string) (string, error) {
	key, err := base64.URLEncoding.DecodeString(stdToURLAlphabet.Replace(signingKey))
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha1.New, key)
	mac.Write([]byte(pathAndQuery))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil)), nil
}
