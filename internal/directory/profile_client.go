package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"applyflow/internal/domain/profile"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileDirectory fetches applicant profiles from the upstream profile
// service. Failures are surfaced as errors, never as indefinite blocks.
type ProfileDirectory interface {
	GetProfile(ctx context.Context, userID string) (profile.Profile, error)
}

type httpProfileClient struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

func NewProfileClient(baseURL string, timeout time.Duration, logger *log.Logger) ProfileDirectory {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpProfileClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *httpProfileClient) GetProfile(ctx context.Context, userID string) (profile.Profile, error) {
	if c == nil || c.client == nil {
		return profile.Profile{}, errors.New("nil profile client")
	}
	endpoint := c.baseURL + "/api/v1/auth/profile/full/" + userID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return profile.Profile{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("[ProfileDir] fetch error | user=%s err=%v", userID, err)
		}
		return profile.Profile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return profile.Profile{}, ErrProfileNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("profile fetch failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(rb)))
		if c.logger != nil {
			c.logger.Printf("[ProfileDir] fetch error | user=%s status=%d", userID, resp.StatusCode)
		}
		return profile.Profile{}, err
	}

	var p profile.Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return profile.Profile{}, err
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	return p, nil
}
