package wfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stekc/myTimeAPI/server/timezone"
)

// StoreInfo describes the store a shift is worked at.
type StoreInfo struct {
	StoreID        string `json:"store_id"`
	Address        string `json:"address"`
	TimezoneOffset string `json:"timezone_offset"`
}

type storeLocationResponse struct {
	Data struct {
		Store struct {
			MailingAddress *struct {
				AddressLine1 string `json:"address_line1"`
				City         string `json:"city"`
				Region       string `json:"region"`
				PostalCode   string `json:"postal_code"`
			} `json:"mailing_address"`
		} `json:"store"`
	} `json:"data"`
}

// StoreDirectory resolves store ids to addresses.
// The API does not report a store timezone, so offsets come from loc.
type StoreDirectory struct {
	client *Client
	loc    *time.Location
	now    func() time.Time
}

// NewStoreDirectory creates a directory backed by client.
func NewStoreDirectory(client *Client, loc *time.Location) *StoreDirectory {
	if loc == nil {
		loc = time.Local
	}
	return &StoreDirectory{client: client, loc: loc, now: time.Now}
}

// Lookup fetches the address of storeID.
func (d *StoreDirectory) Lookup(ctx context.Context, storeID string) (*StoreInfo, error) {
	q := url.Values{}
	q.Set("store_id", storeID)
	q.Set("key", d.client.config.APIKey)

	resp, err := d.client.get(ctx, nil, d.client.config.StoreURL+storeLocationPath+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store lookup for %s returned status %d", storeID, resp.StatusCode)
	}

	var payload storeLocationResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode store %s: %w", storeID, err)
	}
	addr := payload.Data.Store.MailingAddress
	if addr == nil {
		return nil, fmt.Errorf("store %s has no mailing address", storeID)
	}

	return &StoreInfo{
		StoreID:        storeID,
		Address:        fmt.Sprintf("%s %s, %s, %s", strings.TrimSpace(addr.AddressLine1), addr.City, addr.Region, addr.PostalCode),
		TimezoneOffset: timezone.OffsetString(d.now().In(d.loc)),
	}, nil
}
