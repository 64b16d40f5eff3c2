package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/bluebook-erp/bluebook/internal/products"
	"github.com/bluebook-erp/bluebook/internal/purchasing"
	"github.com/bluebook-erp/bluebook/internal/services"
)

// Catalog resolves purchase-order lines against the product and service
// catalogs and hands back the name to snapshot onto the line.
type Catalog struct {
	Products *products.Service
	Services *services.Service
}

// Lookup implements purchasing.CatalogPort.
func (c Catalog) Lookup(ctx context.Context, kind purchasing.ItemKind, id uuid.UUID) (string, error) {
	if kind == purchasing.KindService {
		item, err := c.Services.FetchOne(ctx, id)
		if err != nil {
			return "", err
		}
		return item.Name, nil
	}
	product, err := c.Products.FetchOne(ctx, id)
	if err != nil {
		return "", err
	}
	return product.Name, nil
}
