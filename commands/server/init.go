package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// GenOptions can parse command-line flags and arguments to generate
// default app_state for the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd prepares the genesis file in the config directory under the
// given home, filling in the application state produced by gen. An
// existing genesis file is only amended with the app_state, never
// replaced.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	confDir := filepath.Join(home, "config")
	if err := os.MkdirAll(confDir, 0750); err != nil {
		return fmt.Errorf("cannot create config directory: %v", err)
	}

	genFile := filepath.Join(confDir, "genesis.json")
	if fileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
	} else {
		doc := GenesisDoc{}
		chainID := fmt.Sprintf("test-chain-%v", cmn.RandStr(6))
		if err := setJSON(doc, "chain_id", chainID); err != nil {
			return err
		}
		if err := setJSON(doc, "genesis_time", time.Now().UTC()); err != nil {
			return err
		}
		if err := writeGenesis(genFile, doc); err != nil {
			return err
		}
		logger.Info("Generated genesis file", "path", genFile, "chain_id", chainID)
	}

	// no app_state requested, leave like tendermint
	if gen == nil {
		return nil
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	return addGenesisOptions(genFile, options)
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format, so we
// can add one line.
type GenesisDoc map[string]json.RawMessage

func setJSON(doc GenesisDoc, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	doc[key] = raw
	return nil
}

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return err
	}

	doc["app_state"] = options
	return writeGenesis(filename, doc)
}

func writeGenesis(filename string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}
