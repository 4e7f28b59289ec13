package profile

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Load reads a YAML profile from disk and returns it with the raw bytes
func Load(path string) (*Profile, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read profile: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return p, data, nil
}

// Parse decodes and validates a YAML profile.
// KnownFields(true): 오타/미사용 필드는 즉시 실패
func Parse(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

// Default returns the embedded profile (20종목, 원본 대시보드와 동일한 분포)
func Default() *Profile {
	p, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded profile invalid: %v", err))
	}
	return p
}

// DefaultYAML returns a copy of the embedded document
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

// LoadOrDefault loads path, or the embedded profile when path is empty
func LoadOrDefault(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	p, _, err := Load(path)
	return p, err
}

// Hash generates a SHA256 hash of the profile (canonical JSON).
// struct 사용으로 필드 순서가 고정되어 해시 재현성 보장
func Hash(p *Profile) (string, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
