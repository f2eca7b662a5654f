package types

import (
	"context"
)

type FacetStorage interface {
	LoadFacets(ctx context.Context) (*FacetDocument, error)
	SaveFacets(ctx context.Context, doc *FacetDocument) error
}
