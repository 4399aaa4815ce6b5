package supabase

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Session is a signed-in user's tokens.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Email        string
	ExpiresAt    time.Time
}

// Valid reports whether the session carries a token for a user.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.UserID != ""
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (tr tokenResponse) session() Session {
	s := Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		UserID:       tr.User.ID,
		Email:        tr.User.Email,
	}
	if tr.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return s
}

// SignIn authenticates with email and password and stores the session.
func (c *Client) SignIn(email, password string) (Session, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return Session{}, err
	}
	var tr tokenResponse
	err = c.do(request{
		method:      http.MethodPost,
		path:        pathToken,
		query:       url.Values{"grant_type": {"password"}},
		body:        body,
		contentType: "application/json",
	}, &tr)
	if err != nil {
		return Session{}, fmt.Errorf("sign in: %w", err)
	}
	s := tr.session()
	if !s.Valid() {
		return Session{}, errors.New("sign in: response carried no session")
	}
	c.sessionChanged(s)
	return s, nil
}

// Refresh exchanges the refresh token for a new session.
func (c *Client) Refresh() (Session, error) {
	cur := c.Session()
	if cur.RefreshToken == "" {
		return Session{}, fmt.Errorf("refresh: %w", ErrUnauthorized)
	}
	body, err := jsonBody(map[string]string{"refresh_token": cur.RefreshToken})
	if err != nil {
		return Session{}, err
	}
	var tr tokenResponse
	err = c.do(request{
		method:      http.MethodPost,
		path:        pathToken,
		query:       url.Values{"grant_type": {"refresh_token"}},
		body:        body,
		contentType: "application/json",
	}, &tr)
	if err != nil {
		return Session{}, fmt.Errorf("refresh: %w", err)
	}
	s := tr.session()
	c.sessionChanged(s)
	return s, nil
}

// WithRefresh runs fn and, if it fails with ErrUnauthorized, refreshes the
// session once and runs fn again. The original error is returned when the
// refresh itself fails.
func (c *Client) WithRefresh(fn func() error) error {
	err := fn()
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}
	if _, rerr := c.Refresh(); rerr != nil {
		return err
	}
	return fn()
}

// SignOut revokes the session server-side. The local session is cleared
// even when the request fails.
func (c *Client) SignOut() error {
	defer c.sessionChanged(Session{})
	if !c.Session().Valid() {
		return nil
	}
	if err := c.do(request{method: http.MethodPost, path: pathLogout}, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
