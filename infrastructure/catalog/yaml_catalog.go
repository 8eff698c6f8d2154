package catalog

import (
	"context"
	"fmt"
	"os"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/pkg/errors"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of the bundle catalog
type catalogFile struct {
	Bundles []catalogBundle `yaml:"bundles"`
}

type catalogBundle struct {
	Name        string        `yaml:"name"`
	Department  string        `yaml:"department"`
	Description string        `yaml:"description"`
	Items       []catalogItem `yaml:"items"`
}

type catalogItem struct {
	SKU           string `yaml:"sku"`
	Name          string `yaml:"name"`
	Kind          string `yaml:"kind"`
	AssigneeGroup string `yaml:"assignee_group"`
	Quantity      int    `yaml:"quantity"`
}

// YAMLCatalog loads bundle definitions from a YAML file. Operations teams
// maintain the catalog alongside the deployment, it seeds the bundle table
// on startup
type YAMLCatalog struct {
	path   string
	logger *zap.Logger
}

// NewYAMLCatalog creates a catalog backed by the given file path
func NewYAMLCatalog(path string, logger *zap.Logger) *YAMLCatalog {
	return &YAMLCatalog{
		path:   path,
		logger: logger,
	}
}

// Load parses the catalog file into bundle entities
func (c *YAMLCatalog) Load(ctx context.Context) ([]*entities.Bundle, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("bundle catalog")
		}
		return nil, fmt.Errorf("failed to read catalog %s: %w", c.path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", c.path, err)
	}

	bundles := make([]*entities.Bundle, 0, len(file.Bundles))

	for _, cb := range file.Bundles {
		bundle, err := entities.NewBundle(cb.Name, cb.Department, cb.Description, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog bundle %q: %w", cb.Name, err)
		}

		for _, ci := range cb.Items {
			quantity := ci.Quantity
			if quantity == 0 {
				quantity = 1
			}

			item := entities.BundleItem{
				SKU:           ci.SKU,
				Name:          ci.Name,
				Kind:          entities.ItemKind(ci.Kind),
				AssigneeGroup: ci.AssigneeGroup,
				Quantity:      quantity,
			}

			if err := bundle.AddItem(item); err != nil {
				return nil, fmt.Errorf("invalid item %q in catalog bundle %q: %w", ci.SKU, cb.Name, err)
			}
		}

		bundles = append(bundles, bundle)
	}

	c.logger.Info("Bundle catalog loaded",
		zap.String("path", c.path),
		zap.Int("bundles", len(bundles)),
	)

	return bundles, nil
}

var _ ports.BundleCatalog = (*YAMLCatalog)(nil)
