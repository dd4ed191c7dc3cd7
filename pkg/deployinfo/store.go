// Package deployinfo reads and writes deploy.json, the per-environment record of
// deployed contract addresses.
package deployinfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNotRecorded is returned when an environment has no entry for a contract
var ErrNotRecorded = errors.New("contract not recorded")

// Entry is either a plain address or an upgradeable proxy with its logic contract
type Entry struct {
	Address common.Address
	Proxy   common.Address
	Logic   common.Address
}

func (e Entry) IsProxy() bool {
	return e.Proxy != (common.Address{})
}

// Target is the address callers talk to: the proxy for upgradeable contracts
func (e Entry) Target() common.Address {
	if e.IsProxy() {
		return e.Proxy
	}
	return e.Address
}

type proxyEntry struct {
	Proxy string `json:"proxy"`
	Logic string `json:"logic"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.IsProxy() {
		return json.Marshal(proxyEntry{Proxy: e.Proxy.Hex(), Logic: e.Logic.Hex()})
	}
	return json.Marshal(e.Address.Hex())
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if !common.IsHexAddress(s) {
			return fmt.Errorf("invalid address %q", s)
		}
		*e = Entry{Address: common.HexToAddress(s)}
		return nil
	}

	var p proxyEntry
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if !common.IsHexAddress(p.Proxy) {
		return fmt.Errorf("invalid proxy address %q", p.Proxy)
	}
	*e = Entry{Proxy: common.HexToAddress(p.Proxy)}
	if p.Logic != "" {
		if !common.IsHexAddress(p.Logic) {
			return fmt.Errorf("invalid logic address %q", p.Logic)
		}
		e.Logic = common.HexToAddress(p.Logic)
	}
	return nil
}

// Store is an in-memory copy of deploy.json. It is safe for concurrent use.
type Store struct {
	path string

	mu   sync.RWMutex
	envs map[string]map[string]Entry
}

// Load reads path. A missing file yields an empty store that Save will create.
func Load(path string) (*Store, error) {
	s := &Store{path: path, envs: make(map[string]map[string]Entry)}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read deploy record: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.envs); err != nil {
		return nil, fmt.Errorf("failed to parse deploy record %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Entry(env, name string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.envs[env][name]
	return e, ok
}

// Address returns the address to call for name in env
func (s *Store) Address(env, name string) (common.Address, error) {
	e, ok := s.Entry(env, name)
	if !ok || e.Target() == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s in %s", ErrNotRecorded, name, env)
	}
	return e.Target(), nil
}

// Contracts lists the recorded contract names of env in lexical order
func (s *Store) Contracts(env string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.envs[env]))
	for n := range s.envs[env] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Store) SetAddress(env, name string, addr common.Address) {
	s.set(env, name, Entry{Address: addr})
}

func (s *Store) SetProxy(env, name string, proxy, logic common.Address) {
	s.set(env, name, Entry{Proxy: proxy, Logic: logic})
}

func (s *Store) set(env, name string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.envs[env] == nil {
		s.envs[env] = make(map[string]Entry)
	}
	s.envs[env][name] = e
}

// Save writes the record tab-indented. The file is replaced through a rename so
// a crash never leaves a truncated deploy.json behind.
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.envs, "", "\t")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode deploy record: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".deploy-*.json")
	if err != nil {
		return fmt.Errorf("failed to write deploy record: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write deploy record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write deploy record: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write deploy record: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write deploy record: %w", err)
	}
	return nil
}
