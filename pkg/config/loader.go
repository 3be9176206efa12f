// Package config loads and lightly validates the gateway's two on-disk
// configuration files (spec §6). Heavy JSON-Schema validation and the
// editing experience belong to the separately-developed admin UI (spec §1
// non-goal); this package only does the structural load the core needs to
// run, plus the ${VAR} substitution and copy-example-if-missing bootstrap
// spec §6 assigns to the core.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/tailscale/hujson"

	"github.com/agentmesh/mcpgw/pkg/gwerrors"
	"github.com/agentmesh/mcpgw/pkg/gwlog"
	"github.com/agentmesh/mcpgw/pkg/gwtypes"
)

// LoadBackendServers reads and validates backend-servers.json at path. If
// path is missing and a sibling "<name>.example.json" exists, the example is
// copied to path first (spec §6).
func LoadBackendServers(path string) (*gwtypes.BackendServersConfig, error) {
	if err := bootstrapFromExample(path); err != nil {
		return nil, err
	}

	raw, err := readStrict(path)
	if err != nil {
		return nil, err
	}

	var cfg gwtypes.BackendServersConfig
	if err := unmarshalStrict(raw, &cfg); err != nil {
		return nil, gwerrors.ConfigInvalid("backend-servers.json: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, gwerrors.ConfigInvalid("backend-servers.json: %v", err)
	}
	return &cfg, nil
}

// LoadGroups reads and validates groups.json at path.
func LoadGroups(path string) (*gwtypes.GroupsConfig, error) {
	raw, err := readStrict(path)
	if err != nil {
		return nil, err
	}

	var cfg gwtypes.GroupsConfig
	if err := unmarshalStrict(raw, &cfg); err != nil {
		return nil, gwerrors.ConfigInvalid("groups.json: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, gwerrors.ConfigInvalid("groups.json: %v", err)
	}
	return &cfg, nil
}

// bootstrapFromExample implements the "missing config, example exists" copy
// behaviour from spec §6, under an advisory file lock so two processes
// bootstrapping at the same time do not both write the file. Readers of
// path do not take the lock.
func bootstrapFromExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	examplePath := examplePathFor(path)
	if _, err := os.Stat(examplePath); err != nil {
		// No example either: leave it to the caller to fail on the missing
		// file with a clear "not found" error from readStrict.
		return nil
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	defer lock.Unlock() //nolint:errcheck

	if _, err := os.Stat(path); err == nil {
		// Another process won the race.
		return nil
	}

	data, err := os.ReadFile(examplePath)
	if err != nil {
		return fmt.Errorf("read example config %s: %w", examplePath, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("write %s from example: %w", path, err)
	}
	gwlog.Infof("created %s from %s", path, examplePath)
	return nil
}

func examplePathFor(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + ".example" + ext
}

// readStrict reads path and strips JSON5-style comments/trailing commas
// (hand-edited config files commonly carry both) before the caller's strict
// encoding/json unmarshal.
func readStrict(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, gwerrors.ConfigInvalid("reading %s: %v", path, err)
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, gwerrors.ConfigInvalid("%s: %v", path, err)
	}
	return std, nil
}

func unmarshalStrict(raw []byte, out any) error {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
