package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/tidwall/gjson"
)

// LoginResult is the outcome of a successful sign-in
type LoginResult struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"liora_user"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, listctl.NewValidationError("credentials", "", "email and password are required")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		Post(c.loginPath)
	if err := responseError("login", resp, err); err != nil {
		return nil, err
	}
	root := gjson.ParseBytes(resp.Body())
	token := firstOf(root, "accessToken", "token", "access_token", "data.accessToken", "data.token").String()
	if token == "" {
		return nil, listctl.NewNetworkError("login", http.StatusOK, fmt.Errorf("%w: missing access token", ErrUnexpectedPayload))
	}
	result := &LoginResult{AccessToken: token}
	for _, path := range []string{"user", "data.user"} {
		if u := root.Get(path); u.IsObject() {
			result.User = decodeUser(u, c.loc)
			break
		}
	}
	if result.User.Email == "" {
		result.User.Email = email
	}
	return result, nil
}
