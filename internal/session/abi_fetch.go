package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danhper/eclair/internal/values"
)

// etherscanAPI maps a chain id to the explorer host queried by FetchABI.
// Kept small and explicit rather than pulling in a chain-registry
// dependency: the corpus does not carry one, and the set of chains treb's
// own verification flow supports is itself a short, hand-maintained list.
var etherscanAPI = map[int64]string{
	1:     "https://api.etherscan.io/api",
	10:    "https://api-optimistic.etherscan.io/api",
	42161: "https://api.arbiscan.io/api",
	8453:  "https://api.basescan.org/api",
}

var etherscanEnvOverride = map[int64]string{
	10:    "OP_ETHERSCAN_API_KEY",
	42161: "ARBISCAN_API_KEY",
	8453:  "BASESCAN_API_KEY",
}

// FetchABI downloads and registers a verified contract's ABI from the
// chain-appropriate block explorer (`vm.fetchAbi` / `fetch_abi`).
func (s *Session) FetchABI(ctx context.Context, name string, address common.Address, chainID int64) error {
	base, ok := etherscanAPI[chainID]
	if !ok {
		return values.NewError(values.ErrUsage, "no known explorer API for chain id %d", chainID)
	}
	key := os.Getenv("ETHERSCAN_API_KEY")
	if envVar, ok := etherscanEnvOverride[chainID]; ok {
		if override := os.Getenv(envVar); override != "" {
			key = override
		}
	}

	url := fmt.Sprintf("%s?module=contract&action=getabi&address=%s&apikey=%s", base, address.Hex(), key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return values.WrapError(values.ErrRPC, err, "failed to build explorer request")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return values.WrapError(values.ErrRPC, err, "failed to reach explorer")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return values.WrapError(values.ErrRPC, err, "failed to read explorer response")
	}

	var payload struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Result  string `json:"result"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return values.WrapError(values.ErrRPC, err, "failed to parse explorer response")
	}
	if payload.Status != "1" {
		return values.NewError(values.ErrRPC, "explorer returned error: %s", payload.Message)
	}

	return s.LoadABI(name, address, []byte(payload.Result))
}
