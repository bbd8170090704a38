package artifact

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

const compressedExtension = ".br"

type Bytecode struct {
	Path       string
	Contents   []byte
	CID        string
	Compressed bool
}

// Size returns the number of bytes that will be uploaded.
func (b Bytecode) Size() int {
	return len(b.Contents)
}

// Load reads, decompresses when needed, and normalizes the artifact at path.
func Load(path string) (Bytecode, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return Bytecode{}, fmt.Errorf("bytecode path is required")
	}

	raw, err := os.ReadFile(trimmedPath)
	if err != nil {
		return Bytecode{}, fmt.Errorf("failed to read bytecode artifact: %w", err)
	}

	compressed := strings.EqualFold(filepath.Ext(trimmedPath), compressedExtension)
	if compressed {
		raw, err = Decompress(raw)
		if err != nil {
			return Bytecode{}, err
		}
	}

	contents, err := Normalize(raw)
	if err != nil {
		return Bytecode{}, fmt.Errorf("%s: %w", trimmedPath, err)
	}

	fingerprint, err := Fingerprint(contents)
	if err != nil {
		return Bytecode{}, err
	}

	return Bytecode{
		Path:       trimmedPath,
		Contents:   contents,
		CID:        fingerprint,
		Compressed: compressed,
	}, nil
}

// Decompress inflates a brotli stream.
func Decompress(payload []byte) ([]byte, error) {
	decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress bytecode artifact: %w", err)
	}
	return decompressed, nil
}

// Normalize strips whitespace and an optional 0x prefix and checks that what
// is left is an even-length hex string.
func Normalize(raw []byte) ([]byte, error) {
	compact := bytes.Join(bytes.Fields(raw), nil)
	if len(compact) >= 2 && compact[0] == '0' && (compact[1] == 'x' || compact[1] == 'X') {
		compact = compact[2:]
	}
	if len(compact) == 0 {
		return nil, ErrEmptyBytecode
	}
	if len(compact)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrInvalidBytecode, len(compact))
	}
	for index, character := range compact {
		if !isHexDigit(character) {
			return nil, fmt.Errorf("%w: unexpected byte %q at offset %d", ErrInvalidBytecode, character, index)
		}
	}
	return compact, nil
}

// Fingerprint returns the CIDv1 (raw codec, sha2-256) of data.
func Fingerprint(data []byte) (string, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("failed to hash bytecode artifact: %w", err)
	}
	return cid.NewCidV1(cid.Raw, sum).String(), nil
}

func isHexDigit(character byte) bool {
	return (character >= '0' && character <= '9') ||
		(character >= 'a' && character <= 'f') ||
		(character >= 'A' && character <= 'F')
}
