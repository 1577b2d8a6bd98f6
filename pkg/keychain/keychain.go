// Package keychain is a small owner-only secrets file holding the Notion credentials.
package keychain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

const (
	TokenKey    = "notionTokenDbSys"
	DatabaseKey = "notionIdDBSys"

	fileName = "keychain.json"
)

type Keychain struct {
	Path    string
	secrets map[string]string
}

// Open loads the keychain in dir. A missing file yields an empty keychain.
func Open(dir string) (*Keychain, error) {
	k := &Keychain{Path: filepath.Join(dir, fileName), secrets: make(map[string]string)}

	b, err := os.ReadFile(k.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return k, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read keychain: %w", err)
	}
	if err := json.Unmarshal(b, &k.secrets); err != nil {
		return nil, fmt.Errorf("decode keychain %s: %w", k.Path, err)
	}
	if k.secrets == nil {
		k.secrets = make(map[string]string)
	}
	return k, nil
}

func (k *Keychain) Get(key string) string {
	return k.secrets[key]
}

func (k *Keychain) Contains(key string) bool {
	_, ok := k.secrets[key]
	return ok
}

func (k *Keychain) Keys() []string {
	keys := make([]string, 0, len(k.secrets))
	for key := range k.secrets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Set stores value under key and writes the file with 0600 permissions.
func (k *Keychain) Set(key, value string) error {
	k.secrets[key] = value
	return k.save()
}

func (k *Keychain) Remove(key string) error {
	if !k.Contains(key) {
		return nil
	}
	delete(k.secrets, key)
	return k.save()
}

func (k *Keychain) save() error {
	if err := os.MkdirAll(filepath.Dir(k.Path), 0700); err != nil {
		return fmt.Errorf("create keychain directory: %w", err)
	}
	f, err := os.OpenFile(k.Path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open keychain for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(k.secrets)
}
