package dataapi

import (
	"context"
	"net/http"
)

// Authenticate signs in with the configured username and password and stores
// the returned access token, expiry, remember flag and session id.
//
// An HTTP error response is not returned: the raw response is logged and the
// empty string is returned, leaving the previous session untouched. Only
// transport and decode failures produce an error.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	req := c.http.R().
		SetHeader("Content-Type", formContentType).
		SetFormData(map[string]string{
			"username": c.cfg.username,
			"password": c.cfg.password,
			"clientId": c.cfg.clientID,
		})

	resp, err := c.execute(ctx, req, http.MethodPost, "authentication")
	if err != nil {
		return "", err
	}

	if resp.IsError() {
		c.logger.Error().
			Int("status", resp.StatusCode()).
			Str("response", dumpResponse(resp)).
			Msg("Authentication failed")
		return "", nil
	}

	body, err := decodeResult(resp.Body())
	if err != nil {
		return "", err
	}

	c.session = Session{
		AccessToken: body.String("accessToken"),
		ExpiresIn:   body.String("expiresIn"),
		Remember:    body.String("remember"),
		SessionID:   body.String("sessionId"),
	}

	c.logger.Debug().Str("expires_in", c.session.ExpiresIn).Msg("Authenticated")
	return c.session.AccessToken, nil
}

// GetToken exchanges the stored session id for a new access token and
// returns the decoded response. The stored session is not modified.
// Any HTTP error is returned as a *StatusError.
func (c *Client) GetToken(ctx context.Context) (Result, error) {
	req := c.http.R().
		SetHeader("Content-Type", formContentType).
		SetHeader(authorizationHeader, "MTAuth sessionId="+c.session.SessionID).
		SetFormData(map[string]string{
			"clientId": c.cfg.clientID,
		})

	resp, err := c.execute(ctx, req, http.MethodPost, "token")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newStatusError(resp)
	}

	return decodeResult(resp.Body())
}
