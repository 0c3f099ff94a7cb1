// Package cache remembers the artifacts of generation passes.
//
// A key hashes everything a pass depends on: the descriptors of all files of
// the set, which of them are generated, and the generation options. Inputs are
// sorted before hashing so that the same inputs always produce the same key.
//
// Key format version: v1
// Format: v1:{protoHash}[:{optionsHash}]
//
// Changing the hashing or the format invalidates every cached result; bump
// the version when doing so.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"

	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
)

// FormatVersion is the version of the key format
const FormatVersion = "v1"

// Key identifies the inputs of a generation pass
type Key struct {
	ProtoHash string
	Options   map[string]string
}

// NewKey hashes the file set and the options
func NewKey(set *descriptors.FileSet, options map[string]string) (Key, error) {
	if set == nil {
		return Key{}, fmt.Errorf("%w: file set is nil", ErrInvalidCacheKey)
	}
	hash, err := protoHash(set)
	if err != nil {
		return Key{}, err
	}
	return Key{ProtoHash: hash, Options: options}, nil
}

// protoHash hashes every file of the set sorted by path. Each file
// contributes: path \0 generated-flag \0 descriptor \0
func protoHash(set *descriptors.FileSet) (string, error) {
	generated := make(map[string]bool, len(set.Files()))
	for _, f := range set.Files() {
		generated[f.Path()] = true
	}

	files := append([]*descriptors.File(nil), set.AllFiles()...)
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path() < files[j].Path()
	})

	marshal := proto.MarshalOptions{Deterministic: true}
	hasher := sha256.New()
	for _, f := range files {
		data, err := marshal.Marshal(protodesc.ToFileDescriptorProto(f.Desc))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrInvalidCacheKey, f.Path(), err)
		}
		hasher.Write([]byte(f.Path()))
		hasher.Write([]byte{0})
		if generated[f.Path()] {
			hasher.Write([]byte{1})
		}
		hasher.Write([]byte{0})
		hasher.Write(data)
		hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// String formats the key for storage
func (k Key) String() string {
	parts := []string{FormatVersion, k.ProtoHash}
	if len(k.Options) > 0 {
		parts = append(parts, hashOptions(k.Options))
	}
	return strings.Join(parts, ":")
}

// Validate checks that the key carries a proto hash
func (k Key) Validate() error {
	if k.ProtoHash == "" {
		return fmt.Errorf("%w: proto hash is required", ErrInvalidCacheKey)
	}
	return nil
}

// hashOptions hashes the options with keys in alphabetical order and
// returns the first 16 hex characters
func hashOptions(options map[string]string) string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	hasher := sha256.New()
	for _, k := range keys {
		hasher.Write([]byte(k))
		hasher.Write([]byte{0})
		hasher.Write([]byte(options[k]))
		hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}
