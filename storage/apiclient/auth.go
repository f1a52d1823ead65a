package apiclient

import (
	"context"
	"net/http"
)

// Login exchanges credentials for an opaque bearer token. The client does
// not interpret the token beyond storing it; issuance is the backend's
// business.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	in := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/token", nil, in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}
