package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tartampluch/go-growth/internal/config"
)

// errNotFound marks a 404 answer, which the lookups turn into absent data.
var errNotFound = errors.New("not found")

// HTTPBackend is the JSON-over-HTTP client of the growth backend.
type HTTPBackend struct {
	Client  *http.Client
	BaseURL string
	Token   string
}

// NewHTTPBackend creates a client for baseURL authenticated with token.
func NewHTTPBackend(baseURL, token string) *HTTPBackend {
	return &HTTPBackend{
		Client:  &http.Client{Timeout: config.HTTPTimeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
	}
}

// FetchMeasurements returns the raw measurement history of a child.
func (b *HTTPBackend) FetchMeasurements(ctx context.Context, childID string) ([]MeasurementRecord, error) {
	var out []MeasurementRecord
	path := fmt.Sprintf(config.APIPathMeasurements, url.PathEscape(childID))
	if err := b.getJSON(ctx, path, nil, &out); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// FetchReferencePoint returns the reference statistics at one age, or nil
// when the backend has none.
func (b *HTTPBackend) FetchReferencePoint(ctx context.Context, gender Gender, ageInDays int, m Metric) (*ReferencePoint, error) {
	q := url.Values{}
	q.Set(config.APIQueryGender, string(gender))
	q.Set(config.APIQueryAge, strconv.Itoa(ageInDays))
	q.Set(config.APIQueryMetric, m.String())

	var p ReferencePoint
	if err := b.getJSON(ctx, config.APIPathReference, q, &p); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	p.AgeInDays = ageInDays
	return &p, nil
}

// FetchPrediction returns the latest prediction of a child, or nil when none exists.
func (b *HTTPBackend) FetchPrediction(ctx context.Context, childID string, horizonDays int) (*Prediction, error) {
	q := url.Values{}
	q.Set(config.APIQueryHorizon, strconv.Itoa(horizonDays))

	var p Prediction
	path := fmt.Sprintf(config.APIPathPrediction, url.PathEscape(childID))
	if err := b.getJSON(ctx, path, q, &p); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// FetchEntitlement returns the entitlement of an account. Unknown accounts
// are not VIP.
func (b *HTTPBackend) FetchEntitlement(ctx context.Context, accountID string) (Entitlement, error) {
	var e Entitlement
	path := fmt.Sprintf(config.APIPathEntitlement, url.PathEscape(accountID))
	if err := b.getJSON(ctx, path, nil, &e); err != nil {
		if errors.Is(err, errNotFound) {
			return Entitlement{}, nil
		}
		return Entitlement{}, err
	}
	return e, nil
}

func (b *HTTPBackend) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	if b.BaseURL == "" {
		return errors.New(config.ErrAPIURLEmpty)
	}
	target := b.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	safeURL, err := checkURL(target)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompBackend),
		slog.String(config.LogKeyURL, safeURL),
		slog.String(config.LogKeyRequestID, requestID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeJSON)
	req.Header.Set(config.HeaderRequestID, requestID)
	if b.Token != "" {
		req.Header.Set(config.HeaderAuthorization, config.BearerPrefix+b.Token)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		log.Debug("Backend has no data")
		return errNotFound
	case resp.StatusCode != http.StatusOK:
		log.Warn("Server returned error status", slog.Int(config.LogKeyStatus, resp.StatusCode))
		return fmt.Errorf("%s: %d %s", config.ErrUnexpectedStatus, resp.StatusCode, resp.Status)
	}

	body := io.LimitReader(resp.Body, config.MaxHTTPResponseSize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDecodeResponse, err)
	}
	return nil
}
