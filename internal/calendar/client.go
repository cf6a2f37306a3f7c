package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnauthenticated means the credential was rejected and refreshing
	// did not help; the user has to re-authorize.
	ErrUnauthenticated = errors.New("calendar credential rejected")

	// ErrRemoteUnavailable covers transport failures and 5xx responses;
	// safe to retry on a later trigger.
	ErrRemoteUnavailable = errors.New("calendar service unavailable")
)

const (
	DefaultBaseURL  = "https://www.googleapis.com/calendar/v3"
	DefaultTokenURL = "https://oauth2.googleapis.com/token"
	defaultTimeout  = 10 * time.Second
)

type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client talks to the remote calendar service for a single calendar
// ("primary"). It holds no per-user state: every call takes the resolved
// credential explicitly.
type Client struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	tokenURL := config.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokenURL:     tokenURL,
		clientID:     config.ClientID,
		clientSecret: config.ClientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type Event struct {
	ID           string    `json:"id,omitempty"`
	Summary      string    `json:"summary"`
	Description  string    `json:"description,omitempty"`
	Start        EventTime `json:"start"`
	End          EventTime `json:"end"`
	ColorID      string    `json:"colorId,omitempty"`
	Transparency string    `json:"transparency,omitempty"`
}

func (client *Client) CreateEvent(ctx context.Context, credential Credential, event Event) (string, error) {
	endpoint := client.baseURL + "/calendars/primary/events"
	created := Event{}
	if err := client.doJSON(ctx, credential, http.MethodPost, endpoint, &event, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: create returned no event id", ErrRemoteUnavailable)
	}
	return created.ID, nil
}

func (client *Client) UpdateEvent(ctx context.Context, credential Credential, eventID string, event Event) (string, error) {
	endpoint := client.baseURL + "/calendars/primary/events/" + url.PathEscape(eventID)
	updated := Event{}
	if err := client.doJSON(ctx, credential, http.MethodPut, endpoint, &event, &updated); err != nil {
		return "", err
	}
	if updated.ID == "" {
		return eventID, nil
	}
	return updated.ID, nil
}

func (client *Client) DeleteEvent(ctx context.Context, credential Credential, eventID string) error {
	endpoint := client.baseURL + "/calendars/primary/events/" + url.PathEscape(eventID)
	return client.doJSON(ctx, credential, http.MethodDelete, endpoint, nil, nil)
}

func (client *Client) ListUpcoming(ctx context.Context, credential Credential, maxResults int) ([]Event, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	query := url.Values{}
	query.Set("timeMin", time.Now().UTC().Format(time.RFC3339))
	query.Set("maxResults", strconv.Itoa(maxResults))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")
	endpoint := client.baseURL + "/calendars/primary/events?" + query.Encode()

	payload := struct {
		Items []Event `json:"items"`
	}{}
	if err := client.doJSON(ctx, credential, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// Refresh exchanges the refresh token for a fresh access token and returns a
// new credential record; the old one is left untouched.
func (client *Client) Refresh(ctx context.Context, credential Credential) (Credential, error) {
	if !credential.CanRefresh() {
		return Credential{}, fmt.Errorf("%w: no refresh token", ErrUnauthenticated)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", credential.RefreshToken)
	form.Set("client_id", client.clientID)
	form.Set("client_secret", client.clientSecret)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Credential{}, fmt.Errorf("build refresh request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		if response.StatusCode >= http.StatusInternalServerError {
			return Credential{}, fmt.Errorf("%w: refresh status %d: %s", ErrRemoteUnavailable, response.StatusCode, string(body))
		}
		return Credential{}, fmt.Errorf("%w: refresh status %d: %s", ErrUnauthenticated, response.StatusCode, string(body))
	}

	payload := struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		Scope       string `json:"scope"`
	}{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return Credential{}, fmt.Errorf("%w: decode refresh response: %v", ErrRemoteUnavailable, err)
	}
	if payload.AccessToken == "" {
		return Credential{}, fmt.Errorf("%w: refresh returned no access token", ErrUnauthenticated)
	}

	refreshed := Credential{
		AccessToken:  payload.AccessToken,
		RefreshToken: credential.RefreshToken,
		Scope:        credential.Scope,
	}
	if payload.Scope != "" {
		refreshed.Scope = payload.Scope
	}
	if payload.ExpiresIn > 0 {
		refreshed.Expiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}
	return refreshed, nil
}

func (client *Client) doJSON(ctx context.Context, credential Credential, method string, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+credential.AccessToken)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthenticated, response.StatusCode)
	case response.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrRemoteUnavailable, response.StatusCode)
	case response.StatusCode >= http.StatusBadRequest:
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		return fmt.Errorf("calendar request failed: status %d: %s", response.StatusCode, string(detail))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
