package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
)

// fakeResetAPI is a minimal stand-in for the remote OTP reset endpoints:
// one account, one live code, password swapped only on a valid reset.
type fakeResetAPI struct {
	mu       sync.Mutex
	email    string
	password string
	otp      string
	devMode  bool
}

func (f *fakeResetAPI) mount(t *testing.T, mux *http.ServeMux) {
	t.Helper()

	mux.HandleFunc("/auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		defer f.mu.Unlock()
		if body["email"] != f.email {
			writeJSON(t, w, http.StatusOK, map[string]string{
				"status": "ok", "message": "If this email is registered, OTP was generated.",
			})
			return
		}
		f.otp = "123456"
		resp := map[string]string{"status": "ok", "message": "OTP generated successfully."}
		if f.devMode {
			resp["otp"] = f.otp
		}
		writeJSON(t, w, http.StatusOK, resp)
	})

	mux.HandleFunc("/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.otp == "" || body["email"] != f.email || body["otp"] != f.otp {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "Invalid OTP"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]string{"status": "ok", "message": "OTP is valid."})
	})

	mux.HandleFunc("/auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.otp == "" || body["email"] != f.email || body["otp"] != f.otp {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "Invalid OTP"})
			return
		}
		if len(body["new_password"]) < 6 {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "new_password must be at least 6 characters"})
			return
		}
		f.password = body["new_password"]
		f.otp = "" // single use
		writeJSON(t, w, http.StatusOK, map[string]string{"status": "ok", "message": "Password updated successfully."})
	})

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		defer f.mu.Unlock()
		if body["email"] != f.email || body["password"] != f.password {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"access_token": "a1", "refresh_token": "r1", "role": "user",
		})
	})
}

func TestResetFlowHappyPath(t *testing.T) {
	ctx := context.Background()
	api := &fakeResetAPI{email: "u@x.com", password: "OldPass1", devMode: true}
	mux := http.NewServeMux()
	api.mount(t, mux)

	c := newTestClient(t, mux)
	flow := c.NewResetFlow()

	msg, err := flow.RequestCode(ctx, "u@x.com")
	if err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	if msg == "" {
		t.Fatal("expected human-readable message")
	}
	if flow.State() != StateAwaitingCode {
		t.Fatalf("expected AwaitingCode, got %v", flow.State())
	}
	if flow.DevOTP() != "123456" {
		t.Fatalf("expected dev-mode code surfaced, got %q", flow.DevOTP())
	}

	if err := flow.VerifyCode(ctx, flow.DevOTP()); err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if flow.State() != StateResetting {
		t.Fatalf("expected Resetting, got %v", flow.State())
	}

	if _, err := flow.ResetPassword(ctx, "123456", "NewPass1"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}
	if flow.State() != StateComplete {
		t.Fatalf("expected Complete, got %v", flow.State())
	}

	// The new credential works; the old one no longer does.
	if _, err := c.Login(ctx, "u@x.com", "NewPass1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := c.Login(ctx, "u@x.com", "OldPass1"); err == nil {
		t.Fatal("expected login with old password to fail")
	}
}

func TestResetFlowWrongCodeHoldsState(t *testing.T) {
	ctx := context.Background()
	api := &fakeResetAPI{email: "u@x.com", password: "OldPass1", devMode: true}
	mux := http.NewServeMux()
	api.mount(t, mux)

	c := newTestClient(t, mux)
	seedSession(t, c, "a1", "r1", "user")
	flow := c.NewResetFlow()

	if _, err := flow.RequestCode(ctx, "u@x.com"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}

	if _, err := flow.ResetPassword(ctx, "000000", "NewPass1"); err == nil {
		t.Fatal("expected wrong code to fail")
	}
	if flow.State() != StateAwaitingCode {
		t.Fatalf("expected state held at AwaitingCode after failure, got %v", flow.State())
	}
	if got := c.Sessions().Get(); got.AccessToken != "a1" || got.RefreshToken != "r1" {
		t.Fatalf("expected stored credentials unaltered by reset failure, got %+v", got)
	}

	// The same code still works until the server expires it.
	if _, err := flow.ResetPassword(ctx, "123456", "NewPass1"); err != nil {
		t.Fatalf("retry with correct code failed: %v", err)
	}
	if flow.State() != StateComplete {
		t.Fatalf("expected Complete, got %v", flow.State())
	}
}

func TestResetFlowTransitionsAreStrictlyForward(t *testing.T) {
	ctx := context.Background()
	api := &fakeResetAPI{email: "u@x.com", password: "OldPass1", devMode: true}
	mux := http.NewServeMux()
	api.mount(t, mux)

	c := newTestClient(t, mux)
	flow := c.NewResetFlow()

	if err := flow.VerifyCode(ctx, "123456"); !errors.Is(err, ErrResetStateInvalid) {
		t.Fatalf("expected guard to reject verify before request, got %v", err)
	}
	if _, err := flow.ResetPassword(ctx, "123456", "NewPass1"); !errors.Is(err, ErrResetStateInvalid) {
		t.Fatalf("expected guard to reject reset before request, got %v", err)
	}

	if _, err := flow.RequestCode(ctx, "u@x.com"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	if _, err := flow.RequestCode(ctx, "u@x.com"); !errors.Is(err, ErrResetStateInvalid) {
		t.Fatalf("expected no skipping or re-entry without restart, got %v", err)
	}

	flow.Restart()
	if flow.State() != StateRequesting {
		t.Fatalf("expected Requesting after restart, got %v", flow.State())
	}
	if flow.DevOTP() != "" || flow.Email() != "" {
		t.Fatal("expected challenge discarded on restart")
	}
}

func TestResetFlowRestartAbandonsStepInFlight(t *testing.T) {
	ctx := context.Background()

	// The handler restarts the flow while the request is still in flight,
	// so the step must finish abandoned instead of advancing.
	var flow *ResetFlow
	restarted := false
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		if !restarted {
			restarted = true
			flow.Restart()
		}
		writeJSON(t, w, http.StatusOK, map[string]string{
			"status": "ok", "message": "OTP generated successfully.", "otp": "123456",
		})
	})

	c := newTestClient(t, mux)
	flow = c.NewResetFlow()

	if _, err := flow.RequestCode(ctx, "u@x.com"); !errors.Is(err, ErrResetAbandoned) {
		t.Fatalf("expected ErrResetAbandoned, got %v", err)
	}
	if flow.State() != StateRequesting {
		t.Fatalf("expected flow held at Requesting, got %v", flow.State())
	}
	if flow.DevOTP() != "" || flow.Email() != "" {
		t.Fatal("expected no challenge recorded for the abandoned step")
	}

	// The same flow accepts a fresh request after the restart.
	if _, err := flow.RequestCode(ctx, "u@x.com"); err != nil {
		t.Fatalf("RequestCode after restart failed: %v", err)
	}
	if flow.State() != StateAwaitingCode {
		t.Fatalf("expected AwaitingCode, got %v", flow.State())
	}
}

func TestResetFlowLegacyPathAliases(t *testing.T) {
	ctx := context.Background()
	var legacyForgot, legacyReset bool

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/forgot-password/request-otp", func(w http.ResponseWriter, r *http.Request) {
		legacyForgot = true
		writeJSON(t, w, http.StatusOK, map[string]string{"status": "ok", "message": "OTP generated successfully.", "otp": "123456"})
	})
	mux.HandleFunc("/auth/forgot-password/reset", func(w http.ResponseWriter, r *http.Request) {
		legacyReset = true
		writeJSON(t, w, http.StatusOK, map[string]string{"status": "ok", "message": "Password updated successfully."})
	})

	server := newTestClient(t, mux) // base client only used for its server URL
	cfg := server.config
	cfg.Reset.LegacyPaths = true
	c, err := New().WithConfig(cfg).Build(ctx)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	flow := c.NewResetFlow()
	if _, err := flow.RequestCode(ctx, "u@x.com"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	if _, err := flow.ResetPassword(ctx, "123456", "NewPass1"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if !legacyForgot || !legacyReset {
		t.Fatalf("expected legacy endpoints hit, forgot=%v reset=%v", legacyForgot, legacyReset)
	}
}
