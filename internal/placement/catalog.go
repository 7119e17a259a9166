package placement

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/validation"
)

// catalogFile is the on-disk layout of the partner catalog.
type catalogFile struct {
	Partners []models.Partner `yaml:"partners"`
}

// LoadCatalog reads a YAML partner catalog. A missing file is an empty
// catalog. Invalid entries are dropped and reported in the returned result.
func LoadCatalog(path string) ([]models.Partner, validation.ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, validation.ValidationResult{}, nil
		}
		return nil, validation.ValidationResult{}, fmt.Errorf("failed to read partner catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog YAML and validates its entries.
func ParseCatalog(data []byte) ([]models.Partner, validation.ValidationResult, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, validation.ValidationResult{}, fmt.Errorf("failed to parse partner catalog: %w", err)
	}
	partners, result := validation.New().ValidateCatalog(file.Partners)
	return partners, result, nil
}

// MarshalCatalog encodes partners in the catalog layout.
func MarshalCatalog(partners []models.Partner) ([]byte, error) {
	return yaml.Marshal(catalogFile{Partners: partners})
}

// Catalog holds the current Resolver for a catalog file and swaps it when the
// file is reloaded.
type Catalog struct {
	path     string
	resolver atomic.Pointer[Resolver]
	onReload atomic.Pointer[func(*Resolver)]
}

// NewCatalog loads path. Invalid entries are logged and skipped.
func NewCatalog(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	c.resolver.Store(NewResolver(nil))
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// StaticCatalog wraps a fixed set of partners.
func StaticCatalog(partners []models.Partner) *Catalog {
	c := &Catalog{}
	c.resolver.Store(NewResolver(partners))
	return c
}

func (c *Catalog) Path() string {
	return c.path
}

// Resolver returns the resolver for the most recently loaded catalog.
func (c *Catalog) Resolver() *Resolver {
	return c.resolver.Load()
}

// OnReload registers fn to run after every successful reload.
func (c *Catalog) OnReload(fn func(*Resolver)) {
	c.onReload.Store(&fn)
}

// Reload re-reads the catalog file. On error the previous resolver stays.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return nil
	}
	partners, result, err := LoadCatalog(c.path)
	if err != nil {
		return err
	}
	for _, conflict := range result.Conflicts {
		logger.Warn("Skipping partner", "reason", conflict.Description)
	}
	r := NewResolver(partners)
	c.resolver.Store(r)
	logger.Debug("Partner catalog loaded", "path", c.path, "partners", len(partners))
	if fn := c.onReload.Load(); fn != nil && *fn != nil {
		(*fn)(r)
	}
	return nil
}
