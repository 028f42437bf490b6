package storefront

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prairiegroup/storefront/internal/config"
	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/internal/pagination"
	"github.com/prairiegroup/storefront/pkg/ctxval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Token         string
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// fakeAPI answers every call with body and records the decoded requests.
type fakeAPI struct {
	mu       sync.Mutex
	status   int
	body     string
	requests []capturedRequest
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var req capturedRequest
	_ = json.Unmarshal(raw, &req)
	req.Token = r.Header.Get(tokenHeader)
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, f.body)
}

func newTestClient(t *testing.T, api *fakeAPI, mutate ...func(*config.StorefrontConfig)) Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	conf := &config.Config{Storefront: config.StorefrontConfig{
		Domain:      "pg-hvac.myshopify.com",
		Endpoint:    srv.URL,
		APIVersion:  "2024-01",
		PublicToken: "public-token",
		Timeout:     2 * time.Second,
	}}
	for _, m := range mutate {
		m(&conf.Storefront)
	}
	c, err := NewClient(conf)
	require.NoError(t, err)
	return c
}

func TestClientSendsNamedOperation(t *testing.T) {
	api := &fakeAPI{body: `{"data":{"ok":true}}`}
	c := newTestClient(t, api, func(s *config.StorefrontConfig) {
		s.Country = "US"
		s.Language = "EN"
	})

	var out struct {
		OK bool `json:"ok"`
	}
	err := c.Query(context.Background(), Operation{Name: "Ping", Document: "query Ping { ok }"}, map[string]any{"language": "FR"}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)

	require.Len(t, api.requests, 1)
	got := api.requests[0]
	assert.Equal(t, "public-token", got.Token)
	assert.Equal(t, "Ping", got.OperationName)
	assert.Equal(t, "query Ping { ok }", got.Query)
	assert.Equal(t, map[string]any{"country": "US", "language": "FR"}, got.Variables)
}

func TestClientFirstPageOmitsCursors(t *testing.T) {
	api := &fakeAPI{body: `{"data":{"collections":{"nodes":[],"pageInfo":{"hasNextPage":false,"hasPreviousPage":false}}}}`}
	repo := NewCatalogRepository(newTestClient(t, api))

	req, err := pagination.First(10)
	require.NoError(t, err)
	_, err = repo.ListCollections(context.Background(), req.Variables())
	require.NoError(t, err)

	require.Len(t, api.requests, 1)
	vars := api.requests[0].Variables
	assert.Equal(t, float64(10), vars["first"])
	assert.NotContains(t, vars, "after")
	assert.NotContains(t, vars, "before")
	assert.NotContains(t, vars, "last")
}

func TestClientErrors(t *testing.T) {
	op := Operation{Name: "Ping", Document: "query Ping { ok }"}

	t.Run("graphql error", func(t *testing.T) {
		api := &fakeAPI{body: `{"errors":[{"message":"Throttled"},{"message":"other"}]}`}
		err := newTestClient(t, api).Query(context.Background(), op, nil, nil)

		var gqlErr *GraphQLError
		require.ErrorAs(t, err, &gqlErr)
		assert.Equal(t, "Throttled", gqlErr.Message)
		assert.Equal(t, "Ping", gqlErr.Operation)
	})

	t.Run("http status", func(t *testing.T) {
		api := &fakeAPI{status: http.StatusBadGateway, body: `upstream down`}
		err := newTestClient(t, api).Query(context.Background(), op, nil, nil)
		assert.ErrorContains(t, err, "unexpected status 502")
		var transportErr *TransportError
		assert.ErrorAs(t, err, &transportErr)
	})

	t.Run("no retry", func(t *testing.T) {
		api := &fakeAPI{status: http.StatusServiceUnavailable}
		_ = newTestClient(t, api).Query(context.Background(), op, nil, nil)
		assert.Len(t, api.requests, 1)
	})

	t.Run("missing data", func(t *testing.T) {
		api := &fakeAPI{body: `{"data":null}`}
		err := newTestClient(t, api).Query(context.Background(), op, nil, nil)
		assert.ErrorContains(t, err, "no data")
	})
}

func TestClientRecordsOperations(t *testing.T) {
	api := &fakeAPI{body: `{"data":{}}`}
	c := newTestClient(t, api)
	ctx := ctxval.Wrap(context.Background())

	require.NoError(t, c.Query(ctx, Operation{Name: "A"}, nil, nil))
	require.NoError(t, c.Mutate(ctx, Operation{Name: "B"}, nil, nil))
	assert.Equal(t, []string{"A", "B"}, Operations(ctx))
	assert.Empty(t, Operations(context.Background()))
}

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown collection", func(t *testing.T) {
		api := &fakeAPI{body: `{"data":{"collection":null}}`}
		repo := NewCatalogRepository(newTestClient(t, api))
		req, _ := pagination.First(8)

		_, err := repo.GetCollection(ctx, "nope", req.Variables())
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Equal(t, "nope", api.requests[0].Variables["handle"])
	})

	t.Run("collection page", func(t *testing.T) {
		api := &fakeAPI{body: `{"data":{"collection":{"id":"gid://shopify/Collection/1","handle":"motors","title":"Motors",
			"products":{"nodes":[{"id":"p1","handle":"fan-motor","title":"Fan Motor",
			"priceRange":{"minVariantPrice":{"amount":"129.5","currencyCode":"USD"},"maxVariantPrice":{"amount":"129.5","currencyCode":"USD"}}}],
			"pageInfo":{"hasNextPage":true,"hasPreviousPage":true,"startCursor":"s1","endCursor":"e1"}}}}}`}
		repo := NewCatalogRepository(newTestClient(t, api))
		req, _ := pagination.NewRequest(pagination.DirectionPrevious, "s0", 8)

		got, err := repo.GetCollection(ctx, "motors", req.Variables())
		require.NoError(t, err)
		assert.Equal(t, "Motors", got.Title)
		require.Len(t, got.Products.Nodes, 1)
		assert.Equal(t, "$129.50", got.Products.Nodes[0].PriceRange.MinVariantPrice.String())

		vars := api.requests[0].Variables
		assert.Equal(t, float64(8), vars["last"])
		assert.Equal(t, "s0", vars["before"])
		assert.NotContains(t, vars, "first")
		assert.NotContains(t, vars, "after")
	})

	t.Run("page info without cursor", func(t *testing.T) {
		api := &fakeAPI{body: `{"data":{"collections":{"nodes":[],"pageInfo":{"hasNextPage":true}}}}`}
		repo := NewCatalogRepository(newTestClient(t, api))
		_, err := repo.ListCollections(ctx, pagination.Variables{})
		assert.ErrorIs(t, err, pagination.ErrInvalidPageInfo)
	})

	t.Run("policies skip unset", func(t *testing.T) {
		api := &fakeAPI{body: `{"data":{"shop":{
			"privacyPolicy":{"id":"1","title":"Privacy Policy","handle":"privacy-policy"},
			"shippingPolicy":null,
			"termsOfService":{"id":"3","title":"Terms of Service","handle":"terms-of-service"},
			"refundPolicy":null,"subscriptionPolicy":null}}}`}
		repo := NewCatalogRepository(newTestClient(t, api))

		got, err := repo.Policies(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "privacy-policy", got[0].Handle)
		assert.Equal(t, "terms-of-service", got[1].Handle)
	})

	t.Run("layout", func(t *testing.T) {
		api := &fakeAPI{body: `{"data":{"shop":{"name":"PG HVAC","primaryDomain":{"url":"https://pghvac.com"}},"menu":null}}`}
		repo := NewCatalogRepository(newTestClient(t, api))

		got, err := repo.Layout(ctx, "main-menu", "footer")
		require.NoError(t, err)
		assert.Equal(t, "https://pghvac.com", got.Shop.PrimaryDomain.URL)
		assert.Nil(t, got.HeaderMenu)
		assert.Nil(t, got.FooterMenu)
		assert.Len(t, api.requests, 2)
	})
}

func TestCustomerRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("user errors surface first message", func(t *testing.T) {
		api := &fakeAPI{body: `{"data":{"customerCreate":{"customer":null,"customerUserErrors":[
			{"code":"TAKEN","field":["input","email"],"message":"Email has already been taken"},
			{"code":"OTHER","field":["input"],"message":"second"}]}}}`}
		repo := NewCustomerRepository(newTestClient(t, api))

		_, err := repo.Create(ctx, models.CustomerCreateInput{Email: "a@b.co", Password: "hunter22"})
		var userErrs *UserErrors
		require.ErrorAs(t, err, &userErrs)
		assert.Equal(t, "Email has already been taken", err.Error())
		assert.Len(t, userErrs.Errors, 2)
	})

	t.Run("reset uses global id", func(t *testing.T) {
		api := &fakeAPI{body: `{"data":{"customerReset":{"customerAccessToken":{"accessToken":"tok","expiresAt":"2030-01-02T03:04:05Z"},"customerUserErrors":[]}}}`}
		repo := NewCustomerRepository(newTestClient(t, api))

		tok, err := repo.Reset(ctx, "42", models.CustomerResetInput{Password: "pw", ResetToken: "rt"})
		require.NoError(t, err)
		assert.Equal(t, "tok", tok.AccessToken)
		assert.Equal(t, 2030, tok.ExpiresAt.Year())
		assert.Equal(t, "gid://shopify/Customer/42", api.requests[0].Variables["id"])
		assert.Equal(t, map[string]any{"password": "pw", "resetToken": "rt"}, api.requests[0].Variables["input"])
	})

	t.Run("no customer created", func(t *testing.T) {
		api := &fakeAPI{body: `{"data":{"customerCreate":{"customer":null,"customerUserErrors":[]}}}`}
		repo := NewCustomerRepository(newTestClient(t, api))

		_, err := repo.Create(ctx, models.CustomerCreateInput{Email: "a@b.co", Password: "hunter22"})
		var platformErr *PlatformError
		require.ErrorAs(t, err, &platformErr)
		assert.Equal(t, "customerCreate", platformErr.Operation)
		assert.Equal(t, MsgCouldNotCreateCustomer, err.Error())
	})

	t.Run("missing token", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			call func(CustomerRepository) error
			want string
		}{
			{
				name: "login",
				body: `{"data":{"customerAccessTokenCreate":{"customerAccessToken":null,"customerUserErrors":[]}}}`,
				call: func(r CustomerRepository) error {
					_, err := r.CreateAccessToken(ctx, models.CustomerAccessTokenCreateInput{Email: "a@b.co", Password: "x"})
					return err
				},
				want: MsgMissingAccessToken,
			},
			{
				name: "reset",
				body: `{"data":{"customerReset":{"customerAccessToken":null,"customerUserErrors":[]}}}`,
				call: func(r CustomerRepository) error {
					_, err := r.Reset(ctx, "42", models.CustomerResetInput{Password: "pw", ResetToken: "rt"})
					return err
				},
				want: MsgAccessTokenNotFound,
			},
			{
				name: "activate",
				body: `{"data":{"customerActivate":{"customerAccessToken":null,"customerUserErrors":[]}}}`,
				call: func(r CustomerRepository) error {
					_, err := r.Activate(ctx, "42", models.CustomerActivateInput{Password: "pw", ActivationToken: "at"})
					return err
				},
				want: MsgCouldNotActivate,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := NewCustomerRepository(newTestClient(t, &fakeAPI{body: tt.body}))

				err := tt.call(repo)
				var platformErr *PlatformError
				require.ErrorAs(t, err, &platformErr)
				assert.Equal(t, tt.want, err.Error())
			})
		}
	})

	t.Run("expired token", func(t *testing.T) {
		api := &fakeAPI{body: `{"data":{"customer":null}}`}
		repo := NewCustomerRepository(newTestClient(t, api))

		_, err := repo.Get(ctx, "old")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("update only sends changed fields", func(t *testing.T) {
		api := &fakeAPI{body: `{"data":{"customerUpdate":{"customer":{"id":"c1","firstName":"Ada"},"customerAccessToken":null,"customerUserErrors":[]}}}`}
		repo := NewCustomerRepository(newTestClient(t, api))
		first := "Ada"

		got, err := repo.Update(ctx, "tok", models.CustomerUpdateInput{FirstName: &first})
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Customer.FirstName)
		assert.Nil(t, got.AccessToken)
		assert.Equal(t, map[string]any{"firstName": "Ada"}, api.requests[0].Variables["customer"])
	})
}
