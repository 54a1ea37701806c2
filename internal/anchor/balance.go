package anchor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	coinStoreResource = "0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>"
	octasPerAPT       = 100_000_000
	zeroBalance       = "0"
)

// LookupWarning reports a failed balance lookup. It is informational: the
// balance is still returned as "0" and callers should display, not fail.
type LookupWarning struct {
	Address string
	Err     error
}

func (w *LookupWarning) Error() string {
	return fmt.Sprintf("balance lookup for %s failed: %v", w.Address, w.Err)
}

func (w *LookupWarning) Unwrap() error { return w.Err }

// NodeURL returns the public fullnode for a network.
func NodeURL(network string) string {
	switch strings.ToLower(network) {
	case NetworkTestnet:
		return "https://fullnode.testnet.aptoslabs.com"
	case NetworkMainnet:
		return "https://fullnode.mainnet.aptoslabs.com"
	}
	return "https://fullnode.devnet.aptoslabs.com"
}

// BalanceClient reads APT balances from a fullnode REST API.
type BalanceClient struct {
	nodeURL string
	client  *http.Client
}

// NewBalanceClient creates a client for nodeURL.
func NewBalanceClient(nodeURL string) *BalanceClient {
	return &BalanceClient{
		nodeURL: strings.TrimRight(nodeURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Balance returns the APT balance of address with two decimals. Every
// failure yields "0" and a *LookupWarning; it never returns another error
// type. An empty address is "0" with no warning.
func (c *BalanceClient) Balance(ctx context.Context, address string) (string, *LookupWarning) {
	if address == "" {
		return zeroBalance, nil
	}

	octas, err := c.fetchOctas(ctx, address)
	if err != nil {
		return zeroBalance, &LookupWarning{Address: address, Err: err}
	}
	return strconv.FormatFloat(float64(octas)/octasPerAPT, 'f', 2, 64), nil
}

func (c *BalanceClient) fetchOctas(ctx context.Context, address string) (uint64, error) {
	endpoint := fmt.Sprintf("%s/v1/accounts/%s/resource/%s",
		c.nodeURL, url.PathEscape(address), url.PathEscape(coinStoreResource))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to reach fullnode: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fullnode returned status %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			Coin struct {
				Value string `json:"value"`
			} `json:"coin"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode resource: %w", err)
	}

	octas, err := strconv.ParseUint(body.Data.Coin.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coin value %q: %w", body.Data.Coin.Value, err)
	}
	return octas, nil
}
