package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/prairiegroup/storefront/internal/config"
	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/internal/navigation"
	"github.com/prairiegroup/storefront/internal/pagination"
	"github.com/prairiegroup/storefront/internal/repo/storefront"
	"github.com/prairiegroup/storefront/pkg/deferred"
	log "github.com/prairiegroup/storefront/pkg/logger/log"
)

const (
	CollectionsPageSize        = 10
	CollectionProductsPageSize = 8
)

// HomePage is the data of the landing page. Recommended resolves after the
// page started rendering and falls back to an empty list.
type HomePage struct {
	Featured    *models.Collection
	Recommended *deferred.Value[[]models.Product]
}

// Layout is the chrome shared by every page. CartCount falls back to 0.
type Layout struct {
	Shop      models.Shop
	Header    []navigation.Item
	Footer    []navigation.Item
	CartCount *deferred.Value[int]
}

type CatalogUsecase interface {
	Home(ctx context.Context) (*HomePage, error)
	Collections(ctx context.Context, req pagination.Request) (pagination.Page[models.Collection], error)
	Collection(ctx context.Context, handle string, req pagination.Request) (*models.Collection, error)
	Product(ctx context.Context, handle string) (*models.Product, error)
	Policies(ctx context.Context) ([]models.Policy, error)
	Policy(ctx context.Context, handle string) (*models.Policy, error)
	Layout(ctx context.Context, cartID string) *Layout
}

type catalogUsecase struct {
	repo storefront.CatalogRepository
	conf config.StorefrontConfig
}

func NewCatalogUsecase(repo storefront.CatalogRepository, conf *config.Config) CatalogUsecase {
	return &catalogUsecase{repo: repo, conf: conf.Storefront}
}

func (uc *catalogUsecase) Home(ctx context.Context) (*HomePage, error) {
	recommended := deferred.Go(ctx, "recommended_products", []models.Product{}, uc.repo.RecommendedProducts)

	collections, err := uc.repo.FeaturedCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("featured collection: %w", err)
	}

	page := &HomePage{Recommended: recommended}
	for i := range collections {
		if models.VisibleCollection(collections[i]) {
			page.Featured = &collections[i]
			break
		}
	}
	return page, nil
}

func (uc *catalogUsecase) Collections(ctx context.Context, req pagination.Request) (pagination.Page[models.Collection], error) {
	page, err := uc.repo.ListCollections(ctx, req.Variables())
	if err != nil {
		return pagination.Page[models.Collection]{}, err
	}
	return page.Filter(models.VisibleCollection), nil
}

func (uc *catalogUsecase) Collection(ctx context.Context, handle string, req pagination.Request) (*models.Collection, error) {
	collection, err := uc.repo.GetCollection(ctx, handle, req.Variables())
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewNotFoundError("Collection %s not found", handle)
	}
	if err != nil {
		return nil, err
	}
	return collection, nil
}

func (uc *catalogUsecase) Product(ctx context.Context, handle string) (*models.Product, error) {
	product, err := uc.repo.GetProduct(ctx, handle)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewNotFoundError("Product %s not found", handle)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (uc *catalogUsecase) Policies(ctx context.Context) ([]models.Policy, error) {
	policies, err := uc.repo.Policies(ctx)
	if err != nil {
		return nil, err
	}
	if len(policies) == 0 {
		return nil, models.NewNotFoundError("No policies found")
	}
	return policies, nil
}

func (uc *catalogUsecase) Policy(ctx context.Context, handle string) (*models.Policy, error) {
	policies, err := uc.repo.Policies(ctx)
	if err != nil {
		return nil, err
	}
	for i := range policies {
		if policies[i].Handle == handle {
			return &policies[i], nil
		}
	}
	return nil, models.NewNotFoundError("Policy %s not found", handle)
}

// Layout never fails: without platform data the fallback menus are used.
func (uc *catalogUsecase) Layout(ctx context.Context, cartID string) *Layout {
	cartCount := deferred.Resolved(0)
	if cartID != "" {
		cartCount = deferred.Go(ctx, "cart_quantity", 0, func(ctx context.Context) (int, error) {
			return uc.repo.CartQuantity(ctx, cartID)
		})
	}

	data, err := uc.repo.Layout(ctx, uc.conf.HeaderMenu, uc.conf.FooterMenu)
	if err != nil {
		log.Warnw(ctx, "Failed to load layout, using fallback menus", "error", err)
		data = &models.Layout{}
	}
	if data.Shop.Name == "" {
		data.Shop.Name = uc.conf.ShopTitle
	}

	domains := navigation.Domains(uc.conf.PublicStoreDomain, data.Shop)
	return &Layout{
		Shop:      data.Shop,
		Header:    navigation.Header(data.HeaderMenu, domains),
		Footer:    navigation.Footer(data.FooterMenu, domains),
		CartCount: cartCount,
	}
}
