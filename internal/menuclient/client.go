// Package menuclient retrieves the shared catalog through an ordered chain
// of fallback tiers: the remote store, the persistent cache, the static
// same-origin document, and finally the bundled default. Fetch never fails;
// at worst the register runs on the built-in menu.
package menuclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Ux1ew1/Kassa-Android/internal/kvstore"
	"github.com/Ux1ew1/Kassa-Android/internal/menu"
)

// DefaultTimeout bounds the wait on the primary and static requests. Slow
// Wi-Fi at the counter should degrade to the cache, not freeze the register.
const DefaultTimeout = 2200 * time.Millisecond

const cacheKey = "kassa.menu.cache.v1"

// Source names the tier a snapshot came from.
type Source int

const (
	SourcePrimary Source = iota
	SourceCache
	SourceStatic
	SourceBundled
)

func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceCache:
		return "cache"
	case SourceStatic:
		return "static"
	default:
		return "bundled"
	}
}

// Offline reports whether the remote store was unreachable, so the UI can
// show its offline indicator.
func (s Source) Offline() bool {
	return s != SourcePrimary
}

// Config carries the endpoints and the bounded-wait settings.
type Config struct {
	// BaseURL is the API prefix of the remote menu store, e.g. "http://host:3000/api".
	BaseURL string
	// StaticURL is the same-origin read-only fallback document, e.g. "http://host:3000/menu.json".
	StaticURL string
	// Timeout bounds each remote request; DefaultTimeout when zero.
	Timeout time.Duration
	// HTTPClient overrides http.DefaultClient, mainly for tests.
	HTTPClient *http.Client
}

// Client is the menu fetch pipeline plus the save path back to the store.
type Client struct {
	cfg   Config
	http  *http.Client
	cache kvstore.Store
}

func New(cfg Config, cache kvstore.Store) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient, cache: cache}
}

// --------------------------------------------------
// Fetch
// --------------------------------------------------

// Fetch resolves a snapshot through the tier chain, first success wins.
// Tier failures are recovered internally and never returned to the caller.
func (c *Client) Fetch(ctx context.Context) (menu.Snapshot, Source) {
	attempts := []struct {
		source Source
		fn     func(context.Context) (menu.Snapshot, error)
	}{
		{SourcePrimary, c.fromPrimary},
		{SourceCache, c.fromCache},
		{SourceStatic, c.fromStatic},
	}

	for _, attempt := range attempts {
		snap, err := attempt.fn(ctx)
		if err == nil {
			return snap, attempt.source
		}
		logrus.WithError(err).WithField("tier", attempt.source.String()).
			Debug("menu tier unavailable, falling through")
	}

	return menu.Default(), SourceBundled
}

func (c *Client) fromPrimary(ctx context.Context) (menu.Snapshot, error) {
	payload, err := c.getDocument(ctx, c.cfg.BaseURL+"/menu")
	if err != nil {
		return menu.Snapshot{}, err
	}

	snap := menu.Normalize(payload)
	c.writeCache(snap)
	return snap, nil
}

func (c *Client) fromCache(_ context.Context) (menu.Snapshot, error) {
	raw, err := c.cache.Get(cacheKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return menu.Snapshot{}, ErrEmptyCache
		}
		return menu.Snapshot{}, errors.Wrap(err, "menuclient: read cache")
	}

	snap := menu.Normalize(decodeJSON(raw))
	if snap.Empty() {
		return menu.Snapshot{}, ErrEmptyCache
	}
	return snap, nil
}

func (c *Client) fromStatic(ctx context.Context) (menu.Snapshot, error) {
	payload, err := c.getDocument(ctx, c.cfg.StaticURL)
	if err != nil {
		return menu.Snapshot{}, err
	}

	snap := menu.Normalize(payload)
	c.writeCache(snap)
	return snap, nil
}

// --------------------------------------------------
// Save
// --------------------------------------------------

// SaveResult is the confirmation document of a save. LocalOnly marks a save
// that reached the cache but not the remote store.
type SaveResult struct {
	Message     string      `json:"message"`
	Menu        []menu.Item `json:"menu"`
	ActiveOrder []menu.ID   `json:"activeOrder"`
	LocalOnly   bool        `json:"localOnly,omitempty"`
}

// Save normalizes the catalog, writes the cache first, then pushes the
// document to the remote store. A store failure is not an error: the save
// degrades to a local-only confirmation.
func (c *Client) Save(ctx context.Context, items []menu.Item, order []menu.ID) SaveResult {
	normalized := menu.Normalize(menu.Snapshot{Items: items, ActiveOrder: order})
	c.writeCache(normalized)

	result, err := c.putDocument(ctx, normalized)
	if err != nil {
		logrus.WithError(err).Warn("menu store unreachable, keeping the save local")
		return SaveResult{
			Message:     "Menu was saved locally",
			Menu:        normalized.Items,
			ActiveOrder: normalized.ActiveOrder,
			LocalOnly:   true,
		}
	}
	return result
}

// --------------------------------------------------
// Transport
// --------------------------------------------------

// getDocument performs a bounded-wait GET. The context deadline aborts the
// in-flight request, it does not merely drop the response.
func (c *Client) getDocument(ctx context.Context, url string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "menuclient: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "menuclient: request menu")
	}
	defer resp.Body.Close()

	payload := decodeBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("menuclient: menu request failed: %s", messageFrom(payload, resp.Status))
	}
	if !isMenuPayload(payload) {
		return nil, ErrBadShape
	}
	return payload, nil
}

func (c *Client) putDocument(ctx context.Context, snap menu.Snapshot) (SaveResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"items":       snap.Items,
		"activeOrder": snap.ActiveOrder,
	})
	if err != nil {
		return SaveResult{}, errors.Wrap(err, "menuclient: encode menu")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.cfg.BaseURL+"/menu", bytes.NewReader(body))
	if err != nil {
		return SaveResult{}, errors.Wrap(err, "menuclient: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return SaveResult{}, errors.Wrap(err, "menuclient: save menu")
	}
	defer resp.Body.Close()

	payload := decodeBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SaveResult{}, errors.Errorf("menuclient: menu save failed: %s", messageFrom(payload, resp.Status))
	}

	confirmed := menu.Normalize(payload)
	return SaveResult{
		Message:     messageFrom(payload, ""),
		Menu:        confirmed.Items,
		ActiveOrder: confirmed.ActiveOrder,
	}, nil
}

// writeCache persists the snapshot so the cache tier stays fresh for the
// next failure. Best effort: quota and storage errors never block a fetch.
func (c *Client) writeCache(snap menu.Snapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		logrus.WithError(err).Error("menuclient: encoding cache snapshot failed")
		return
	}
	if err := c.cache.Set(cacheKey, raw); err != nil {
		logrus.WithError(err).Warn("menuclient: caching menu failed")
	}
}

// --------------------------------------------------
// Payload helpers
// --------------------------------------------------

func decodeBody(resp *http.Response) any {
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil
	}
	return payload
}

func decodeJSON(raw []byte) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil
	}
	return payload
}

// isMenuPayload checks the document is array-shaped menu data before it is
// handed to the normalizer.
func isMenuPayload(payload any) bool {
	switch v := payload.(type) {
	case []any:
		return true
	case map[string]any:
		for _, key := range []string{"items", "menu", "activeOrder"} {
			if _, ok := v[key].([]any); ok {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func messageFrom(payload any, fallback string) string {
	if doc, ok := payload.(map[string]any); ok {
		if msg, ok := doc["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return fallback
}
