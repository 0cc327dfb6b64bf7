package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"trifoody/internal/domain/entity"
	"trifoody/pkg/errors"
)

type identityError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// AuthError is a rejection from the identity toolkit, e.g. INVALID_PASSWORD or EMAIL_NOT_FOUND.
type AuthError struct {
	Status int
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("identity toolkit: %s (status %d)", e.Reason, e.Status)
}

func (f *FirebaseAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.AuthSession, error) {
	var resp struct {
		LocalID      string `json:"localId"`
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
	}

	err := f.post(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		var authErr *AuthError
		if stderrors.As(err, &authErr) && authErr.Status < http.StatusInternalServerError {
			return nil, errors.Unauthorized("Invalid email or password", err)
		}
		return nil, errors.Unavailable("Sign-in is unavailable", err)
	}

	return &entity.AuthSession{
		UserID:       resp.LocalID,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// SendPasswordReset asks Firebase to email a reset link to the address.
func (f *FirebaseAuthClient) SendPasswordReset(ctx context.Context, email string) error {
	err := f.post(ctx, "accounts:sendOobCode", map[string]interface{}{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
	if err != nil {
		var authErr *AuthError
		if stderrors.As(err, &authErr) && authErr.Status < http.StatusInternalServerError {
			return errors.BadRequest(fmt.Sprintf("Password reset failed: %s", authErr.Reason), err)
		}
		return errors.Unavailable("Password reset is unavailable", err)
	}
	return nil
}

func (f *FirebaseAuthClient) post(ctx context.Context, method string, payload interface{}, out interface{}) error {
	if f.apiKey == "" {
		return fmt.Errorf("firebase api key is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s?key=%s", f.baseURL, method, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity toolkit request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var ie identityError
		if err := json.NewDecoder(res.Body).Decode(&ie); err != nil || ie.Error.Message == "" {
			return &AuthError{Status: res.StatusCode, Reason: http.StatusText(res.StatusCode)}
		}
		return &AuthError{Status: res.StatusCode, Reason: ie.Error.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
