package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propstack/listing-service/internal/adapter/http/middleware"
	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/listing/query"
	"github.com/propstack/listing-service/internal/listing/usecase"
)

const testSecret = "test-secret"

type stubQueries struct {
	listResult   query.PaginatedResult[domain.Listing]
	listErr      error
	lastOpts     query.ListOptions
	findResult   *domain.Listing
	findErr      error
	nearbyResult query.PaginatedResult[domain.NearbyListing]
	nearbyErr    error
	statsResult  query.ListingStats
}

func (s *stubQueries) List(_ context.Context, opts query.ListOptions) (query.PaginatedResult[domain.Listing], error) {
	s.lastOpts = opts
	return s.listResult, s.listErr
}

func (s *stubQueries) FindByID(context.Context, string) (*domain.Listing, error) {
	return s.findResult, s.findErr
}

func (s *stubQueries) Nearby(context.Context, float64, float64, float64, int) (query.PaginatedResult[domain.NearbyListing], error) {
	return s.nearbyResult, s.nearbyErr
}

func (s *stubQueries) Stats(context.Context) (query.ListingStats, error) {
	return s.statsResult, nil
}

type stubMutations struct {
	createUserID string
	createErr    error
	deleteErr    error
}

func (s *stubMutations) CreateListing(_ context.Context, userID string, _ usecase.CreateListingInput) (*domain.Listing, error) {
	s.createUserID = userID
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.Listing{ID: "new-id", OwnerID: userID}, nil
}

func (s *stubMutations) UpdateListing(_ context.Context, id, _ string, _ usecase.UpdateListingInput) (*domain.Listing, error) {
	return &domain.Listing{ID: id}, nil
}

func (s *stubMutations) UpdateStatus(_ context.Context, id string, status domain.ListingStatus) (*domain.Listing, error) {
	return &domain.Listing{ID: id, Status: status}, nil
}

func (s *stubMutations) DeleteListing(context.Context, string, string) error {
	return s.deleteErr
}

func newTestRouter(q QueryService, m MutationService, p PhotoService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(q, m, p).Register(r, testSecret)
	return r
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestListEndpoint(t *testing.T) {
	q := &stubQueries{
		listResult: query.PaginatedResult[domain.Listing]{
			Data: []domain.Listing{{ID: "l1", City: "Bangalore"}},
			Meta: query.PaginationMeta{Total: 12, Page: 1, Limit: 10, TotalPages: 2, HasNext: true},
		},
	}
	r := newTestRouter(q, &stubMutations{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/listings?city=Bangalore&status=ACTIVE&minPrice=100&page=1&limit=10", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []domain.Listing     `json:"data"`
		Meta query.PaginationMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, int64(12), body.Meta.Total)
	assert.True(t, body.Meta.HasNext)

	assert.Equal(t, "Bangalore", q.lastOpts.City)
	assert.Equal(t, domain.StatusActive, q.lastOpts.Status)
	require.NotNil(t, q.lastOpts.MinPrice)
	assert.Equal(t, 100.0, *q.lastOpts.MinPrice)
}

func TestListEndpointRejectsMalformedNumbers(t *testing.T) {
	r := newTestRouter(&stubQueries{}, &stubMutations{}, nil)

	for _, target := range []string{
		"/listings?page=abc",
		"/listings?limit=1.5",
		"/listings?minPrice=cheap",
		"/listings?bedrooms=two",
		"/listings?isFeatured=maybe",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, "target %s", target)
	}
}

func TestGetEndpointStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("%w: id x", domain.ErrNotFound), http.StatusNotFound},
		{"invalid", fmt.Errorf("%w: empty id", domain.ErrInvalidArgument), http.StatusBadRequest},
		{"backend down", fmt.Errorf("%w: mongo", domain.ErrBackendUnavailable), http.StatusServiceUnavailable},
		{"schema drift", fmt.Errorf("%w: id x", domain.ErrInconsistentSchema), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubQueries{findErr: tc.err}, &stubMutations{}, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/listings/x", nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestNearbyEndpointRequiresCoordinates(t *testing.T) {
	r := newTestRouter(&stubQueries{}, &stubMutations{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/listings/nearby?lng=77.6", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/listings/nearby?lat=NaN&lng=77.6", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/listings/nearby?lat=12.9&lng=77.6", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateRequiresAuth(t *testing.T) {
	r := newTestRouter(&stubQueries{}, &stubMutations{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewBufferString(`{}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/listings", bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePassesAuthenticatedUser(t *testing.T) {
	m := &stubMutations{}
	r := newTestRouter(&stubQueries{}, m, nil)

	body := `{"title":"2BHK","price":100,"listingType":"SALE","propertyType":"APARTMENT","city":"Bangalore"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewBufferString(body))
	req.Header.Set("Authorization", bearerToken(t, "user-42"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-42", m.createUserID)
}

func TestDeleteForbidden(t *testing.T) {
	m := &stubMutations{deleteErr: fmt.Errorf("%w: not yours", domain.ErrForbidden)}
	r := newTestRouter(&stubQueries{}, m, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/listings/l1", nil)
	req.Header.Set("Authorization", bearerToken(t, "intruder"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddPhotoWithoutStorage(t *testing.T) {
	r := newTestRouter(&stubQueries{}, &stubMutations{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/listings/l1/photos", nil)
	req.Header.Set("Authorization", bearerToken(t, "owner"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
