package policies

import (
	"context"

	"stayfinder/internal/domain/listings"
)

type ListingPort interface {
	ByID(ctx context.Context, id string) (*listings.Listing, error)
	Search(ctx context.Context, query listings.CatalogQuery) (listings.CatalogPage, error)
}
