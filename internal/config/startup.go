package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FindStartupScript locates .eclair_init.sol per spec §6.4: the current
// directory first, then $HOME/.foundry/.
func FindStartupScript(projectRoot string) (string, bool) {
	candidates := []string{filepath.Join(projectRoot, ".eclair_init.sol")}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".foundry", ".eclair_init.sol"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

// artifactDirs are the build-tool output directories Eclair recognizes for
// project autoload (spec §6.5): Foundry's `out/` and Hardhat's
// `artifacts/contracts/`.
var artifactDirs = []string{"out", filepath.Join("artifacts", "contracts")}

// ArtifactJSON is one compiled-contract artifact as forge/hardhat emit it:
// enough to pull the contract name and ABI back out.
type ArtifactJSON struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
}

// DiscoverArtifacts walks the recognized artifact directories under
// projectRoot and returns every contract-name -> raw ABI JSON pair found,
// for registering at startup (spec §6.5). Interfaces/abstract contracts
// with an empty ABI are skipped.
func DiscoverArtifacts(projectRoot string) (map[string]json.RawMessage, error) {
	found := make(map[string]json.RawMessage)
	for _, dir := range artifactDirs {
		root := filepath.Join(projectRoot, dir)
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		err = filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
			if err != nil || fi.IsDir() || filepath.Ext(path) != ".json" {
				return nil
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			var artifact ArtifactJSON
			if err := json.Unmarshal(raw, &artifact); err != nil {
				return nil
			}
			if artifact.ContractName == "" || len(artifact.ABI) == 0 {
				return nil
			}
			found[artifact.ContractName] = artifact.ABI
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return found, nil
}
