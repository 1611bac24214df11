package format

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSymbolTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "currency_mappings.json")
	payload := `{
  "currencies": {
    "VRSC": {
      "i_address": "i5w5MuNik5NtLcYmNzcvaoixooEebB6MGV",
      "eth_address": "0xbc2738ba63882891094c99e59a02141ca1a1c36a",
      "eth_symbol": "VRSC"
    },
    "Bridge.vETH": {
      "i_address": "i3f7tSctFkiPpiedY8QR5Tep9p4qDVebDx"
    }
  }
}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write mapping file: %v", err)
	}

	table, err := LoadSymbolTable(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	id, ok := table.IAddress("VRSC")
	if !ok || id != "i5w5MuNik5NtLcYmNzcvaoixooEebB6MGV" {
		t.Fatalf("unexpected i-address: %q ok=%v", id, ok)
	}
	if _, ok := table.IAddress("DAI.vETH"); ok {
		t.Fatalf("unknown symbol must not resolve")
	}
	if got := table.SymbolByID("i3f7tSctFkiPpiedY8QR5Tep9p4qDVebDx"); got != "Bridge.vETH" {
		t.Fatalf("reverse lookup failed: %q", got)
	}
	if got := table.SymbolByID("iUnknown"); got != "iUnknown" {
		t.Fatalf("unmapped id should pass through: %q", got)
	}
	if got := table.DisplaySymbol("Bridge.vETH"); got != "Bridge.vETH" {
		t.Fatalf("currency without eth symbol keeps its name: %q", got)
	}
}

func TestLoadSymbolTableMissingFile(t *testing.T) {
	if _, err := LoadSymbolTable(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("missing file must error")
	}
}
