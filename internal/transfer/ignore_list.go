package transfer

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// IgnoreList represents a list of transaction hashes to be excluded from
// aggregation.
type IgnoreList struct {
	hashes []IgnoredHash // slice of ignored transaction hashes
}

// IgnoredHash represents an ignored transaction hash.
type IgnoredHash struct {
	Hash   string // transaction hash
	Reason string // reason for ignoring the transaction
}

// Contains reports whether the given transaction hash is on the list.
// Hash comparison is case-insensitive.
func (l *IgnoreList) Contains(hash string) bool {
	for _, ignored := range l.hashes {
		if strings.EqualFold(ignored.Hash, hash) {
			return true
		}
	}

	return false
}

// AddIgnoredHash appends the given transaction hash to the list.
func (l *IgnoreList) AddIgnoredHash(hash string, reason string) {
	l.hashes = append(l.hashes, IgnoredHash{Hash: hash, Reason: reason})
}

// FromYAML reads an IgnoreList from a YAML representation.
func FromYAML(reader io.Reader) (*IgnoreList, error) {
	var ymlList yamlIgnoreList
	decoder := yaml.NewDecoder(reader)
	if err := decoder.Decode(&ymlList); err != nil {
		return nil, fmt.Errorf("failed to decode ignore list from YAML: %w", err)
	}

	ignoreList := &IgnoreList{}
	for _, ymlHash := range ymlList.IgnoredHashes {
		ignoreList.hashes = append(ignoreList.hashes, IgnoredHash{
			Hash:   ymlHash.Hash,
			Reason: ymlHash.Reason,
		})
	}

	return ignoreList, nil
}

// ToYAML writes an IgnoreList to a YAML representation.
func ToYAML(ignoreList *IgnoreList, writer io.Writer) error {
	var ymlList yamlIgnoreList
	for _, hash := range ignoreList.hashes {
		ymlList.IgnoredHashes = append(ymlList.IgnoredHashes, yamlIgnoredHash{
			Hash:   hash.Hash,
			Reason: hash.Reason,
		})
	}

	encoder := yaml.NewEncoder(writer)
	defer func() { _ = encoder.Close() }()

	err := encoder.Encode(&ymlList)
	if err != nil {
		return fmt.Errorf("failed to encode ignore list to YAML: %w", err)
	}

	return nil
}

// yamlIgnoredHash is an internal struct for YAML serialization.
type yamlIgnoredHash struct {
	Hash   string `yaml:"hash"`   // transaction hash
	Reason string `yaml:"reason"` // reason for ignoring the transaction
}

type yamlIgnoreList struct {
	IgnoredHashes []yamlIgnoredHash `yaml:"ignored_hashes"`
}
