// Package config resolves Eclair's ambient configuration the way the
// teacher resolves treb's: a foundry.toml for RPC aliases and explorer
// keys, .env/.env.local for secrets, and environment variables for the
// initial RPC endpoint.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EtherscanConfig mirrors foundry.toml's [etherscan.<name>] table.
type EtherscanConfig struct {
	Key string `toml:"key,omitempty"`
	URL string `toml:"url,omitempty"`
}

// FoundryConfig is the slice of foundry.toml Eclair actually consumes:
// RPC endpoint aliases (`vm.rpc("alias")`) and explorer credentials
// (`vm.fetchAbi`). Build/compiler settings are out of scope (spec's
// Non-goals already exclude a local Solidity compiler).
type FoundryConfig struct {
	RpcEndpoints map[string]string          `toml:"rpc_endpoints"`
	Etherscan    map[string]EtherscanConfig `toml:"etherscan,omitempty"`
}

// Config is the fully resolved configuration for one Eclair run.
type Config struct {
	Foundry     FoundryConfig
	InitialRPC  string
	ProjectRoot string
}

// Load reproduces the teacher's loadFoundryConfig sequence: load .env files
// first (for variable expansion), then foundry.toml, both at
// $HOME/.foundry/foundry.toml and an optional project-local override, then
// expand any `$VAR` references left in the endpoint/key strings.
func Load(projectRoot string) (*Config, error) {
	for _, envFile := range []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	} {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", envFile, err)
			}
		}
	}

	cfg := &Config{ProjectRoot: projectRoot, Foundry: FoundryConfig{
		RpcEndpoints: map[string]string{},
		Etherscan:    map[string]EtherscanConfig{},
	}}

	if home, err := os.UserHomeDir(); err == nil {
		mergeFoundryToml(&cfg.Foundry, filepath.Join(home, ".foundry", "foundry.toml"))
	}
	mergeFoundryToml(&cfg.Foundry, filepath.Join(projectRoot, "foundry.toml"))

	for name, url := range cfg.Foundry.RpcEndpoints {
		cfg.Foundry.RpcEndpoints[name] = os.ExpandEnv(url)
	}
	for name, ec := range cfg.Foundry.Etherscan {
		ec.URL = os.ExpandEnv(ec.URL)
		ec.Key = os.ExpandEnv(ec.Key)
		cfg.Foundry.Etherscan[name] = ec
	}

	cfg.InitialRPC = os.Getenv("ETH_RPC_URL")

	return cfg, nil
}

// mergeFoundryToml decodes path into dst if it exists, ignoring a missing
// file (foundry.toml is optional at either location).
func mergeFoundryToml(dst *FoundryConfig, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	var parsed FoundryConfig
	if _, err := toml.DecodeFile(path, &parsed); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to parse %s: %v\n", path, err)
		return
	}
	for name, url := range parsed.RpcEndpoints {
		dst.RpcEndpoints[name] = url
	}
	for name, ec := range parsed.Etherscan {
		dst.Etherscan[name] = ec
	}
}

// ResolveRPCAlias looks up name in [rpc_endpoints]; if name isn't a known
// alias it is returned unchanged so a bare URL still works directly in
// `vm.rpc(url)`.
func (c *Config) ResolveRPCAlias(name string) string {
	if url, ok := c.Foundry.RpcEndpoints[name]; ok {
		return url
	}
	return name
}
