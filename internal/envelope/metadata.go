package envelope

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata is the fixed envelope record persisted as D.meta.json next to a
// document's ciphertext. The structure is deliberately explicit rather than
// a free-form map so the on-disk contract stays exact.
type Metadata struct {
	IV               string    `json:"iv"`      // base64
	AuthTag          string    `json:"authTag"` // base64
	Algorithm        string    `json:"algorithm"`
	UploadTime       time.Time `json:"uploadTime"`
	OriginalFilename string    `json:"originalFilename"`
	FileSize         int64     `json:"fileSize"`
}

// NewMetadata builds the metadata record for one encryption result.
func NewMetadata(result *Result, originalFilename string, fileSize int64) Metadata {
	return Metadata{
		IV:               base64.StdEncoding.EncodeToString(result.IV),
		AuthTag:          base64.StdEncoding.EncodeToString(result.AuthTag),
		Algorithm:        Algorithm,
		UploadTime:       time.Now().UTC(),
		OriginalFilename: originalFilename,
		FileSize:         fileSize,
	}
}

// DecodeIV returns the raw IV bytes.
func (m Metadata) DecodeIV() ([]byte, error) {
	iv, err := base64.StdEncoding.DecodeString(m.IV)
	if err != nil {
		return nil, fmt.Errorf("failed to decode envelope IV: %w", err)
	}
	return iv, nil
}

// Marshal encodes the metadata as JSON.
func (m Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalMetadata decodes a metadata record and checks the algorithm tag.
func UnmarshalMetadata(data []byte) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse envelope metadata: %w", err)
	}
	if m.Algorithm != Algorithm {
		return Metadata{}, fmt.Errorf("unsupported envelope algorithm %q", m.Algorithm)
	}
	return m, nil
}
