// Package catalog loads the material catalog seed data into a domain Store.
package catalog

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	domain "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

//go:embed data/catalog.yaml
var embeddedSeed []byte

// EmbeddedSeed returns a copy of the built-in seed document.
func EmbeddedSeed() []byte {
	return append([]byte(nil), embeddedSeed...)
}

// Decode parses a YAML seed document. Unknown fields are rejected.
func Decode(data []byte) (domain.Dataset, error) {
	var ds domain.Dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return domain.Dataset{}, errors.Wrap(err, errors.ErrCodeCatalogInvalid, "catalog: decode seed")
	}
	return ds, nil
}

// Load decodes data and builds a Store from it. The store version is a
// digest of data.
func Load(data []byte) (*domain.Store, error) {
	ds, err := Decode(data)
	if err != nil {
		return nil, err
	}
	ds.Version = SeedVersion(data)
	return domain.NewStore(ds)
}

// SeedVersion digests a seed document.
func SeedVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// LoadFile reads and loads a seed file from disk.
func LoadFile(path string) (*domain.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalid, fmt.Sprintf("catalog: read %s", path))
	}
	return Load(data)
}

// LoadDefault loads path when set and the embedded seed otherwise.
func LoadDefault(path string, logger logging.Logger) (*domain.Store, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	var (
		store *domain.Store
		err   error
	)
	source := "embedded"
	if path != "" {
		source = path
		store, err = LoadFile(path)
	} else {
		store, err = Load(embeddedSeed)
	}
	if err != nil {
		logger.Error("catalog load failed", logging.String("source", source), logging.Err(err))
		return nil, err
	}
	stats := store.Stats()
	logger.Info("catalog loaded",
		logging.String("source", source),
		logging.String("version", store.Version()),
		logging.Int("materials", stats["materials"]),
		logging.Int("equipment", stats["equipment"]),
		logging.Int("experiments", stats["experiments"]),
	)
	return store, nil
}
