package format

import (
	"encoding/json"
	"fmt"
	"os"
)

// SymbolInfo is the static mapping entry for one currency symbol.
type SymbolInfo struct {
	IAddress   string `json:"i_address"`
	EthAddress string `json:"eth_address,omitempty"`
	EthSymbol  string `json:"eth_symbol,omitempty"`
}

// SymbolTable is the symbol -> native-id lookup supplied to the engine. It
// is loaded once at startup and read-only afterwards.
type SymbolTable struct {
	bySymbol map[string]SymbolInfo
	byID     map[string]string
}

type symbolFile struct {
	Currencies map[string]SymbolInfo `json:"currencies"`
}

// LoadSymbolTable reads the mapping file.
func LoadSymbolTable(path string) (*SymbolTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read symbol map: %w", err)
	}

	var file symbolFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse symbol map: %w", err)
	}

	return NewSymbolTable(file.Currencies), nil
}

// NewSymbolTable builds a table from mapping entries.
func NewSymbolTable(entries map[string]SymbolInfo) *SymbolTable {
	table := &SymbolTable{
		bySymbol: make(map[string]SymbolInfo, len(entries)),
		byID:     make(map[string]string, len(entries)),
	}
	for symbol, info := range entries {
		table.bySymbol[symbol] = info
		if info.IAddress != "" {
			table.byID[info.IAddress] = symbol
		}
	}
	return table
}

// IAddress returns the native chain identifier for a symbol.
func (t *SymbolTable) IAddress(symbol string) (string, bool) {
	if t == nil {
		return "", false
	}
	info, ok := t.bySymbol[symbol]
	if !ok || info.IAddress == "" {
		return "", false
	}
	return info.IAddress, true
}

// SymbolByID resolves a native chain identifier back to its symbol, or
// returns the id unchanged when unmapped.
func (t *SymbolTable) SymbolByID(currencyID string) string {
	if t == nil {
		return currencyID
	}
	if symbol, ok := t.byID[currencyID]; ok {
		return symbol
	}
	return currencyID
}

// DisplaySymbol prefers the ERC20 symbol for currencies exported to
// Ethereum and falls back to the native symbol.
func (t *SymbolTable) DisplaySymbol(symbol string) string {
	if t == nil {
		return symbol
	}
	if info, ok := t.bySymbol[symbol]; ok && info.EthSymbol != "" {
		return info.EthSymbol
	}
	return symbol
}

// ExternalID prefers the ERC20 contract address and falls back to the
// native symbol when the currency is not exported.
func (t *SymbolTable) ExternalID(symbol string) string {
	if t == nil {
		return symbol
	}
	if info, ok := t.bySymbol[symbol]; ok && info.EthAddress != "" {
		return info.EthAddress
	}
	return symbol
}
