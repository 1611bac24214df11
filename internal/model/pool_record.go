package model

import "github.com/shopspring/decimal"

// RawPoolRecord is one converter pool quote as returned by the snapshot
// source. Records are ephemeral: they are owned by the fetch call that
// produced them and never mutated.
type RawPoolRecord struct {
	Converter      string          `json:"converter"`
	ConverterID    string          `json:"converter_id"`
	PoolID         string          `json:"pool_id"`
	BaseCurrency   string          `json:"base_currency"`
	TargetCurrency string          `json:"target_currency"`
	BaseReserve    decimal.Decimal `json:"base_reserve"`
	TargetReserve  decimal.Decimal `json:"target_reserve"`
	BaseVolume     decimal.Decimal `json:"base_volume"`
	TargetVolume   decimal.Decimal `json:"target_volume"`
	LastPrice      decimal.Decimal `json:"last_price"`
}

// Valid reports whether the record carries usable market data. Pools with
// non-positive reserves or volumes are considered malformed or empty.
func (r RawPoolRecord) Valid() bool {
	if r.BaseCurrency == "" || r.TargetCurrency == "" || r.BaseCurrency == r.TargetCurrency {
		return false
	}
	if r.BaseReserve.Sign() <= 0 || r.TargetReserve.Sign() <= 0 {
		return false
	}
	if r.BaseVolume.Sign() <= 0 || r.TargetVolume.Sign() <= 0 {
		return false
	}
	return r.LastPrice.Sign() > 0
}
