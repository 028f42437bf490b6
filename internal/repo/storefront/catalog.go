package storefront

import (
	"context"
	"fmt"

	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/internal/pagination"
	"golang.org/x/sync/errgroup"
)

type CatalogRepository interface {
	ListCollections(ctx context.Context, vars pagination.Variables) (pagination.Page[models.Collection], error)
	// GetCollection fails with models.ErrNotFound when no collection has the handle.
	GetCollection(ctx context.Context, handle string, vars pagination.Variables) (*models.Collection, error)
	// GetProduct fails with models.ErrNotFound when no product has the handle.
	GetProduct(ctx context.Context, handle string) (*models.Product, error)
	FeaturedCollections(ctx context.Context) ([]models.Collection, error)
	RecommendedProducts(ctx context.Context) ([]models.Product, error)
	// Policies returns the shop policies that are set, in display order.
	Policies(ctx context.Context) ([]models.Policy, error)
	Layout(ctx context.Context, headerMenu, footerMenu string) (*models.Layout, error)
	CartQuantity(ctx context.Context, cartID string) (int, error)
}

type catalogRepo struct {
	client Client
}

func NewCatalogRepository(client Client) CatalogRepository {
	return &catalogRepo{client: client}
}

func (r *catalogRepo) ListCollections(ctx context.Context, vars pagination.Variables) (pagination.Page[models.Collection], error) {
	var data struct {
		Collections pagination.Page[models.Collection] `json:"collections"`
	}
	if err := r.client.Query(ctx, storeCollectionsQuery, vars.Map(), &data); err != nil {
		return pagination.Page[models.Collection]{}, fmt.Errorf("list collections: %w", err)
	}
	if err := data.Collections.PageInfo.Validate(); err != nil {
		return pagination.Page[models.Collection]{}, &TransportError{Operation: storeCollectionsQuery.Name, Err: err}
	}
	return data.Collections, nil
}

func (r *catalogRepo) GetCollection(ctx context.Context, handle string, vars pagination.Variables) (*models.Collection, error) {
	args := vars.Map()
	args["handle"] = handle

	var data struct {
		Collection *models.Collection `json:"collection"`
	}
	if err := r.client.Query(ctx, collectionQuery, args, &data); err != nil {
		return nil, fmt.Errorf("get collection %q: %w", handle, err)
	}
	if data.Collection == nil {
		return nil, fmt.Errorf("collection %q: %w", handle, models.ErrNotFound)
	}
	if err := data.Collection.Products.PageInfo.Validate(); err != nil {
		return nil, &TransportError{Operation: collectionQuery.Name, Err: err}
	}
	return data.Collection, nil
}

func (r *catalogRepo) GetProduct(ctx context.Context, handle string) (*models.Product, error) {
	var data struct {
		Product *models.Product `json:"product"`
	}
	if err := r.client.Query(ctx, productQuery, map[string]any{"handle": handle}, &data); err != nil {
		return nil, fmt.Errorf("get product %q: %w", handle, err)
	}
	if data.Product == nil {
		return nil, fmt.Errorf("product %q: %w", handle, models.ErrNotFound)
	}
	return data.Product, nil
}

func (r *catalogRepo) FeaturedCollections(ctx context.Context) ([]models.Collection, error) {
	var data struct {
		Collections struct {
			Nodes []models.Collection `json:"nodes"`
		} `json:"collections"`
	}
	if err := r.client.Query(ctx, featuredCollectionQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("featured collections: %w", err)
	}
	return data.Collections.Nodes, nil
}

func (r *catalogRepo) RecommendedProducts(ctx context.Context) ([]models.Product, error) {
	var data struct {
		Products struct {
			Nodes []models.Product `json:"nodes"`
		} `json:"products"`
	}
	if err := r.client.Query(ctx, recommendedProductsQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("recommended products: %w", err)
	}
	return data.Products.Nodes, nil
}

func (r *catalogRepo) Policies(ctx context.Context) ([]models.Policy, error) {
	var data struct {
		Shop struct {
			PrivacyPolicy      *models.Policy `json:"privacyPolicy"`
			ShippingPolicy     *models.Policy `json:"shippingPolicy"`
			TermsOfService     *models.Policy `json:"termsOfService"`
			RefundPolicy       *models.Policy `json:"refundPolicy"`
			SubscriptionPolicy *models.Policy `json:"subscriptionPolicy"`
		} `json:"shop"`
	}
	if err := r.client.Query(ctx, policiesQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("policies: %w", err)
	}

	shop := data.Shop
	policies := make([]models.Policy, 0, 5)
	for _, p := range []*models.Policy{
		shop.PrivacyPolicy,
		shop.ShippingPolicy,
		shop.TermsOfService,
		shop.RefundPolicy,
		shop.SubscriptionPolicy,
	} {
		if p != nil {
			policies = append(policies, *p)
		}
	}
	return policies, nil
}

func (r *catalogRepo) Layout(ctx context.Context, headerMenu, footerMenu string) (*models.Layout, error) {
	var (
		header struct {
			Shop models.Shop  `json:"shop"`
			Menu *models.Menu `json:"menu"`
		}
		footer struct {
			Menu *models.Menu `json:"menu"`
		}
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return r.client.Query(ctx, headerQuery, map[string]any{"headerMenuHandle": headerMenu}, &header)
	})
	eg.Go(func() error {
		return r.client.Query(ctx, footerQuery, map[string]any{"footerMenuHandle": footerMenu}, &footer)
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	return &models.Layout{
		Shop:       header.Shop,
		HeaderMenu: header.Menu,
		FooterMenu: footer.Menu,
	}, nil
}

func (r *catalogRepo) CartQuantity(ctx context.Context, cartID string) (int, error) {
	var data struct {
		Cart *struct {
			TotalQuantity int `json:"totalQuantity"`
		} `json:"cart"`
	}
	if err := r.client.Query(ctx, cartQuantityQuery, map[string]any{"cartId": cartID}, &data); err != nil {
		return 0, fmt.Errorf("cart quantity: %w", err)
	}
	if data.Cart == nil {
		return 0, nil
	}
	return data.Cart.TotalQuantity, nil
}
