package chatclient

import (
	"context"
	"net/http"
)

// ResetReceipt is the outcome of a forgot-password request. OTP is only
// populated when the deployment runs in a non-production configuration that
// returns the code directly for operator convenience.
type ResetReceipt struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ExpiresAt string `json:"expires_at"`
	OTP       string `json:"otp"`
}

type resetConfirmResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) forgotPasswordPath() string {
	if c.config.Reset.LegacyPaths {
		return "/auth/forgot-password/request-otp"
	}
	return "/auth/forgot-password"
}

func (c *Client) resetPasswordPath() string {
	if c.config.Reset.LegacyPaths {
		return "/auth/forgot-password/reset"
	}
	return "/auth/reset-password"
}

// RequestPasswordReset asks the remote API to generate a one-time code for
// email. Code generation, delivery, expiry, and rate limiting are entirely
// server-side; the client only learns the receipt.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (*ResetReceipt, error) {
	var receipt ResetReceipt
	err := c.do(ctx, http.MethodPost, c.forgotPasswordPath(), map[string]string{"email": email}, &receipt)
	if err != nil {
		return nil, err
	}
	c.metricInc(MetricResetRequest)
	return &receipt, nil
}

// VerifyResetCode checks a one-time code without consuming it. Deployments
// that merge verification into the reset call can skip this step.
func (c *Client) VerifyResetCode(ctx context.Context, email, otp string) error {
	payload := map[string]string{"email": email, "otp": otp}
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", payload, nil); err != nil {
		return err
	}
	c.metricInc(MetricResetVerify)
	return nil
}

// ConfirmPasswordReset replaces the account password using a valid,
// unexpired one-time code. Every rejection is uniform from the client's
// side: retry with the same code until its server-side expiry, or restart
// the flow.
func (c *Client) ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) (string, error) {
	payload := map[string]string{
		"email":        email,
		"otp":          otp,
		"new_password": newPassword,
	}

	var resp resetConfirmResponse
	if err := c.do(ctx, http.MethodPost, c.resetPasswordPath(), payload, &resp); err != nil {
		c.metricInc(MetricResetConfirmFailure)
		return "", err
	}
	c.metricInc(MetricResetConfirmSuccess)
	return resp.Message, nil
}
