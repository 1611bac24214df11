package supply

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"verusTicker/internal/chain"
	"verusTicker/internal/source"
)

type fakeCurrencyAPI struct {
	supply float64
	err    error
	calls  int
}

func (f *fakeCurrencyAPI) GetCurrency(context.Context, string) (chain.Currency, error) {
	f.calls++
	if f.err != nil {
		return chain.Currency{}, f.err
	}
	return chain.Currency{Name: "VRSC", Supply: f.supply}, nil
}

type fakeConverterAPI struct {
	converters []source.Converter
	err        error
}

func (f *fakeConverterAPI) DiscoverConverters(context.Context) ([]source.Converter, error) {
	return f.converters, f.err
}

func testConverters() []source.Converter {
	return []source.Converter{
		{
			Name:       "Bridge.vETH",
			CurrencyID: "i3f7tSctFkiPpiedY8QR5Tep9p4qDVebDx",
			Reserves: []source.Reserve{
				{Symbol: "VRSC", CurrencyID: "i5w5MuNik5NtLcYmNzcvaoixooEebB6MGV", Reserves: decimal.NewFromInt(900000)},
				{Symbol: "DAI.vETH", CurrencyID: "iGBs4DWztRNvNEJBt4mqHszLxfKTNHTkhM", Reserves: decimal.NewFromInt(1800000)},
			},
		},
		{
			Name:       "SuperVRSC",
			CurrencyID: "iSuperVRSC",
			Reserves: []source.Reserve{
				{Symbol: "VRSC", CurrencyID: "i5w5MuNik5NtLcYmNzcvaoixooEebB6MGV", Reserves: decimal.NewFromInt(100000)},
				{Symbol: "vETH", CurrencyID: "i9oCSqKALwJtcv49xUKS2U2i79h1kX6NEY", Reserves: decimal.NewFromInt(50)},
			},
		},
	}
}

func TestReportComputesCirculating(t *testing.T) {
	currencies := &fakeCurrencyAPI{supply: 75000000}
	reporter := NewReporter("VRSC", time.Minute, currencies, &fakeConverterAPI{converters: testConverters()}, nil)

	report, err := reporter.Report(context.Background())
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}

	if report.TotalSupply != 75000000 {
		t.Fatalf("unexpected total supply %v", report.TotalSupply)
	}
	if report.Locked.InConverters != 1000000 {
		t.Fatalf("unexpected locked amount %v", report.Locked.InConverters)
	}
	if report.CirculatingSupply != 74000000 {
		t.Fatalf("circulating must be total minus locked, got %v", report.CirculatingSupply)
	}
	if report.Locked.ConverterCount != 2 || len(report.Locked.Converters) != 2 {
		t.Fatalf("unexpected converter details: %+v", report.Locked)
	}
	if report.Locked.Converters[0].Converter != "Bridge.vETH" || report.Locked.Converters[0].Reserve != 900000 {
		t.Fatalf("unexpected first detail: %+v", report.Locked.Converters[0])
	}
	if report.Timestamp == "" {
		t.Fatalf("timestamp must be set")
	}
}

func TestReportCaches(t *testing.T) {
	currencies := &fakeCurrencyAPI{supply: 75000000}
	reporter := NewReporter("VRSC", time.Minute, currencies, &fakeConverterAPI{converters: testConverters()}, nil)

	if _, err := reporter.Report(context.Background()); err != nil {
		t.Fatalf("first report failed: %v", err)
	}
	if _, err := reporter.Report(context.Background()); err != nil {
		t.Fatalf("second report failed: %v", err)
	}
	if currencies.calls != 1 {
		t.Fatalf("cached report must not hit the daemon, saw %d calls", currencies.calls)
	}
}

func TestReportRebuildsAfterTTL(t *testing.T) {
	currencies := &fakeCurrencyAPI{supply: 75000000}
	reporter := NewReporter("VRSC", time.Millisecond, currencies, &fakeConverterAPI{converters: testConverters()}, nil)

	if _, err := reporter.Report(context.Background()); err != nil {
		t.Fatalf("first report failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := reporter.Report(context.Background()); err != nil {
		t.Fatalf("second report failed: %v", err)
	}
	if currencies.calls != 2 {
		t.Fatalf("expired cache must rebuild, saw %d calls", currencies.calls)
	}
}

func TestReportSupplyFetchError(t *testing.T) {
	currencies := &fakeCurrencyAPI{err: errors.New("connection refused")}
	reporter := NewReporter("VRSC", time.Minute, currencies, &fakeConverterAPI{converters: testConverters()}, nil)

	if _, err := reporter.Report(context.Background()); err == nil {
		t.Fatalf("daemon failure must surface, not produce an estimate")
	}

	// The failure is not cached; the next call tries again.
	currencies.err = nil
	currencies.supply = 75000000
	report, err := reporter.Report(context.Background())
	if err != nil {
		t.Fatalf("recovery report failed: %v", err)
	}
	if report.TotalSupply != 75000000 {
		t.Fatalf("unexpected total supply %v", report.TotalSupply)
	}
}

func TestReportNoConverters(t *testing.T) {
	currencies := &fakeCurrencyAPI{supply: 75000000}
	reporter := NewReporter("VRSC", time.Minute, currencies, &fakeConverterAPI{}, nil)

	report, err := reporter.Report(context.Background())
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if report.CirculatingSupply != report.TotalSupply {
		t.Fatalf("nothing locked means circulating equals total: %+v", report)
	}
	if report.Locked.ConverterCount != 0 {
		t.Fatalf("unexpected locked summary: %+v", report.Locked)
	}
}
