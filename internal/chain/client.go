package chain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps the JSON-RPC connection to a Verus-family daemon and provides
// typed helpers for the calls the ticker service needs.
type Client struct {
	rpcClient *rpc.Client
}

// NewClient dials the daemon RPC endpoint using HTTP basic auth.
func NewClient(ctx context.Context, rpcURL, user, password string) (*Client, error) {
	token := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
	auth := rpc.WithHTTPAuth(func(h http.Header) error {
		h.Set("Authorization", "Basic "+token)
		return nil
	})

	rpcClient, err := rpc.DialOptions(ctx, rpcURL, auth)
	if err != nil {
		return nil, err
	}

	return &Client{rpcClient: rpcClient}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// Info is the subset of the getinfo response the service reads.
type Info struct {
	Blocks uint64 `json:"blocks"`
	Chain  string `json:"name"`
}

// GetInfo returns daemon status, including the current chain height.
func (c *Client) GetInfo(ctx context.Context) (Info, error) {
	var info Info
	if err := c.rpcClient.CallContext(ctx, &info, "getinfo"); err != nil {
		return Info{}, err
	}
	return info, nil
}

// BlockHeight returns the current chain height.
func (c *Client) BlockHeight(ctx context.Context) (uint64, error) {
	info, err := c.GetInfo(ctx)
	if err != nil {
		return 0, err
	}
	return info.Blocks, nil
}

// Currency is the subset of a getcurrency response the service reads.
type Currency struct {
	Name       string  `json:"name"`
	CurrencyID string  `json:"currencyid"`
	Supply     float64 `json:"supply"`
}

// GetCurrency returns the definition and current supply of a currency.
func (c *Client) GetCurrency(ctx context.Context, currency string) (Currency, error) {
	var cur Currency
	if err := c.rpcClient.CallContext(ctx, &cur, "getcurrency", currency); err != nil {
		return Currency{}, err
	}
	return cur, nil
}

// ReserveCurrency is one reserve entry of a converter's currency state.
type ReserveCurrency struct {
	CurrencyID     string  `json:"currencyid"`
	Weight         float64 `json:"weight"`
	Reserves       float64 `json:"reserves"`
	PriceInReserve float64 `json:"priceinreserve"`
}

// CurrencyState is the notarized state of a converter currency.
type CurrencyState struct {
	Supply            float64           `json:"supply"`
	ReserveCurrencies []ReserveCurrency `json:"reservecurrencies"`
}

type lastNotarization struct {
	CurrencyState CurrencyState `json:"currencystate"`
}

// RawConverter is one entry of the getcurrencyconverters response. Besides
// the fixed fields the daemon keys the currency definition by the
// converter's own id, recovered into CurrencyID.
type RawConverter struct {
	FullyQualifiedName string
	CurrencyID         string
	Height             uint64
	State              CurrencyState
}

// UnmarshalJSON digs the converter id out of the dynamic object key the
// daemon uses for the currency definition.
func (rc *RawConverter) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	for key, value := range fields {
		switch key {
		case "fullyqualifiedname":
			if err := json.Unmarshal(value, &rc.FullyQualifiedName); err != nil {
				return err
			}
		case "height":
			if err := json.Unmarshal(value, &rc.Height); err != nil {
				return err
			}
		case "lastnotarization":
			var ln lastNotarization
			if err := json.Unmarshal(value, &ln); err != nil {
				return err
			}
			rc.State = ln.CurrencyState
		case "output":
			// transaction output reference, unused
		default:
			rc.CurrencyID = key
		}
	}
	return nil
}

// GetCurrencyConverters lists every converter holding reserves of the given
// system currency.
func (c *Client) GetCurrencyConverters(ctx context.Context, systemID string) ([]RawConverter, error) {
	var converters []RawConverter
	if err := c.rpcClient.CallContext(ctx, &converters, "getcurrencyconverters", systemID); err != nil {
		return nil, err
	}
	return converters, nil
}

// VolumePair is one directional conversion entry from the conversiondata
// section of a getcurrencystate response.
type VolumePair struct {
	Currency  string  `json:"currency"`
	ConvertTo string  `json:"convertto"`
	Volume    float64 `json:"volume"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

type conversionData struct {
	VolumePairs []VolumePair `json:"volumepairs"`
}

type currencyStateEntry struct {
	ConversionData *conversionData `json:"conversiondata,omitempty"`
	TotalVolume    *float64        `json:"totalvolume,omitempty"`
}

// GetCurrencyVolumes queries getcurrencystate over a block window and
// extracts the per-pair volume entries denominated in volumeCurrency.
func (c *Client) GetCurrencyVolumes(ctx context.Context, converter, blockRange, volumeCurrency string) ([]VolumePair, float64, error) {
	var entries []currencyStateEntry
	err := c.rpcClient.CallContext(ctx, &entries, "getcurrencystate", converter, blockRange, volumeCurrency)
	if err != nil {
		return nil, 0, err
	}

	var pairs []VolumePair
	var total float64
	for _, entry := range entries {
		if entry.ConversionData != nil {
			pairs = append(pairs, entry.ConversionData.VolumePairs...)
		}
		if entry.TotalVolume != nil {
			total = *entry.TotalVolume
		}
	}
	return pairs, total, nil
}
