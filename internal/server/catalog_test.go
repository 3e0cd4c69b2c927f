package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	catalogdomain "github.com/inmovalia/catalogo/internal/catalog/domain"
	tenantdomain "github.com/inmovalia/catalogo/internal/tenant/domain"
)

type fakeCatalogService struct {
	err error

	listCalls    []catalogdomain.Kind
	listInactive bool
	items        []catalogdomain.Item

	createKind catalogdomain.Kind
	createReq  catalogdomain.CreateRequest
	created    *catalogdomain.Item

	updateID string
	deleteID string

	toggleKind   catalogdomain.Kind
	toggleCode   string
	toggleActive bool

	countsCalls int
}

func (f *fakeCatalogService) FetchAll(ctx context.Context) (catalogdomain.Catalogs, error) {
	return catalogdomain.Catalogs{}, f.err
}

func (f *fakeCatalogService) List(ctx context.Context, kind catalogdomain.Kind, includeInactive bool) ([]catalogdomain.Item, error) {
	f.listCalls = append(f.listCalls, kind)
	f.listInactive = includeInactive
	return f.items, f.err
}

func (f *fakeCatalogService) GetByCode(ctx context.Context, kind catalogdomain.Kind, code string) (*catalogdomain.Item, bool) {
	return nil, false
}

func (f *fakeCatalogService) GetByID(ctx context.Context, id string) (*catalogdomain.Item, bool) {
	return nil, false
}

func (f *fakeCatalogService) GetDefault(ctx context.Context, kind catalogdomain.Kind) (*catalogdomain.Item, bool) {
	return nil, false
}

func (f *fakeCatalogService) Create(ctx context.Context, kind catalogdomain.Kind, req catalogdomain.CreateRequest) (*catalogdomain.Item, error) {
	f.createKind = kind
	f.createReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.created != nil {
		return f.created, nil
	}
	return &catalogdomain.Item{Kind: kind, Code: catalogdomain.DeriveCode(req.Name), Name: req.Name, Active: true}, nil
}

func (f *fakeCatalogService) Update(ctx context.Context, id string, req catalogdomain.UpdateRequest) (*catalogdomain.Item, error) {
	f.updateID = id
	if f.err != nil {
		return nil, f.err
	}
	return &catalogdomain.Item{ID: id}, nil
}

func (f *fakeCatalogService) Delete(ctx context.Context, id string) error {
	f.deleteID = id
	return f.err
}

func (f *fakeCatalogService) Toggle(ctx context.Context, kind catalogdomain.Kind, code string, active bool) (*catalogdomain.Item, error) {
	f.toggleKind = kind
	f.toggleCode = code
	f.toggleActive = active
	if f.err != nil {
		return nil, f.err
	}
	return &catalogdomain.Item{Kind: kind, Code: code, Active: active}, nil
}

func (f *fakeCatalogService) Counts(ctx context.Context) (map[catalogdomain.Kind]int64, error) {
	f.countsCalls++
	if f.err != nil {
		return nil, f.err
	}
	return map[catalogdomain.Kind]int64{catalogdomain.KindAmenity: 5}, nil
}

func (f *fakeCatalogService) InactiveCount(ctx context.Context, kind catalogdomain.Kind) (int64, error) {
	return 0, f.err
}

type fakeTenantService struct {
	getErr    error
	lastGetID string
}

func (f *fakeTenantService) Get(ctx context.Context, id string) (*tenantdomain.Response, error) {
	f.lastGetID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &tenantdomain.Response{ID: id, Name: "Principal", Slug: "principal", DefaultLocale: "es"}, nil
}

func (f *fakeTenantService) Locales(ctx context.Context, id string) ([]tenantdomain.LocaleResponse, error) {
	return []tenantdomain.LocaleResponse{
		{Code: "es", Name: "Espanol", IsDefault: true},
		{Code: "en", Name: "English", Position: 1},
	}, nil
}

func (f *fakeTenantService) Create(ctx context.Context, req tenantdomain.CreateRequest) (*tenantdomain.Response, error) {
	return &tenantdomain.Response{ID: snowflake.ID(1).String(), Name: req.Name}, nil
}

func newTestServer(catalogs *fakeCatalogService, tenants *fakeTenantService) *Server {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())

	srv := &Server{
		engine:   router,
		tenants:  tenants,
		catalogs: catalogs,
	}
	srv.registerTenantRoutes()
	srv.registerCatalogRoutes()
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	srv.engine.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", resp.Body.String(), err)
	}
	return body
}

const testTenantPath = "/tenants/7180946752959418368"

func TestListCatalogsEnvelope(t *testing.T) {
	catalogs := &fakeCatalogService{}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodGet, testTenantPath+"/catalogos", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if _, ok := decodeBody(t, resp)["catalogos"]; !ok {
		t.Fatalf("expected catalogos envelope, got %s", resp.Body.String())
	}

	// Only the unified kinds are listed, in registry order.
	for _, kind := range catalogs.listCalls {
		meta, _ := catalogdomain.MetaFor(kind)
		if meta.Storage != catalogdomain.StorageUnified {
			t.Fatalf("unexpected kind %s in unified listing", kind)
		}
	}
	if catalogs.listInactive {
		t.Fatal("default listing must exclude inactive items")
	}
}

func TestListCatalogsActivoFalseIncludesInactive(t *testing.T) {
	catalogs := &fakeCatalogService{}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodGet, testTenantPath+"/catalogos?activo=false", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !catalogs.listInactive {
		t.Fatal("activo=false must widen the listing to inactive items")
	}
}

func TestCreateCatalogItemResolvesAlias(t *testing.T) {
	catalogs := &fakeCatalogService{}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodPost, testTenantPath+"/catalogos",
		`{"tipo":"tipos_contacto","name":"Inversionista"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if catalogs.createKind != catalogdomain.KindContactType {
		t.Fatalf("alias must resolve to the canonical kind, got %s", catalogs.createKind)
	}
	if _, ok := decodeBody(t, resp)["catalogo"]; !ok {
		t.Fatalf("expected catalogo envelope, got %s", resp.Body.String())
	}
}

func TestCreateCatalogItemUnknownKind(t *testing.T) {
	catalogs := &fakeCatalogService{}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodPost, testTenantPath+"/catalogos",
		`{"tipo":"no_such","name":"X"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if catalogs.createKind != "" {
		t.Fatal("service must not be called for an unknown kind")
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Field != "tipo" {
		t.Fatalf("expected tipo validation detail, got %+v", body.Error)
	}
}

func TestToggleCatalogItemRouting(t *testing.T) {
	catalogs := &fakeCatalogService{}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodPost, testTenantPath+"/catalogos/amenidades/toggle/wifi",
		`{"activo":false}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if catalogs.toggleKind != catalogdomain.KindAmenity || catalogs.toggleCode != "wifi" || catalogs.toggleActive {
		t.Fatalf("toggle args not carried through: kind=%s code=%s active=%v",
			catalogs.toggleKind, catalogs.toggleCode, catalogs.toggleActive)
	}
}

func TestToggleCatalogItemRequiresActivo(t *testing.T) {
	catalogs := &fakeCatalogService{}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodPost, testTenantPath+"/catalogos/amenidades/toggle/wifi", `{}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if catalogs.toggleCode != "" {
		t.Fatal("service must not be called without activo")
	}
}

func TestUpdateGlobalItemIsForbidden(t *testing.T) {
	catalogs := &fakeCatalogService{err: catalogdomain.ErrGlobalReadOnly}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodPut, testTenantPath+"/catalogos/123", `{"name":"X"}`)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.Code, resp.Body.String())
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Type != "forbidden" {
		t.Fatalf("expected forbidden error type, got %q", body.Error.Type)
	}
}

func TestCreateDomainItemDuplicateCode(t *testing.T) {
	catalogs := &fakeCatalogService{err: catalogdomain.ErrCodeTaken}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodPost, testTenantPath+"/catalogos-separados/amenidades",
		`{"name":"WiFi"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Code != "code_taken" {
		t.Fatalf("expected code_taken detail, got %+v", body.Error)
	}
}

func TestSeparateRoutesRejectUnifiedKinds(t *testing.T) {
	catalogs := &fakeCatalogService{}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodGet, testTenantPath+"/catalogos-separados/tipos_contacto", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a unified kind, got %d", resp.Code)
	}
	if len(catalogs.listCalls) != 0 {
		t.Fatal("service must not be called for a unified kind on the separate routes")
	}
}

func TestListDomainItemsEnvelope(t *testing.T) {
	catalogs := &fakeCatalogService{items: []catalogdomain.Item{{Kind: catalogdomain.KindAmenity, Code: "wifi", Name: "WiFi", Active: true}}}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodGet, testTenantPath+"/catalogos-separados/amenidades", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if _, ok := decodeBody(t, resp)["items"]; !ok {
		t.Fatalf("expected items envelope, got %s", resp.Body.String())
	}
}

func TestDomainItemCountsIsStaticSibling(t *testing.T) {
	catalogs := &fakeCatalogService{}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodGet, testTenantPath+"/catalogos-separados/conteos", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if catalogs.countsCalls != 1 {
		t.Fatal("conteos must route to Counts, not the kind listing")
	}
	if _, ok := decodeBody(t, resp)["conteos"]; !ok {
		t.Fatalf("expected conteos envelope, got %s", resp.Body.String())
	}
}

func TestDeleteDomainItemNoContent(t *testing.T) {
	catalogs := &fakeCatalogService{}
	srv := newTestServer(catalogs, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodDelete, testTenantPath+"/catalogos-separados/amenidades/987", "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if catalogs.deleteID != "987" {
		t.Fatalf("expected delete id 987, got %q", catalogs.deleteID)
	}
}

func TestTenantContextUnknownTenant(t *testing.T) {
	tenants := &fakeTenantService{getErr: tenantdomain.ErrNotFound}
	srv := newTestServer(&fakeCatalogService{}, tenants)

	resp := doJSON(t, srv, http.MethodGet, testTenantPath+"/catalogos", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestTenantContextMalformedID(t *testing.T) {
	srv := newTestServer(&fakeCatalogService{}, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodGet, "/tenants/not-a-number/catalogos", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestListTenantLocales(t *testing.T) {
	srv := newTestServer(&fakeCatalogService{}, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodGet, testTenantPath+"/locales", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if _, ok := decodeBody(t, resp)["locales"]; !ok {
		t.Fatalf("expected locales envelope, got %s", resp.Body.String())
	}
}

func TestCreateTenant(t *testing.T) {
	srv := newTestServer(&fakeCatalogService{}, &fakeTenantService{})

	resp := doJSON(t, srv, http.MethodPost, "/tenants", `{"name":"Acme Realty","default_locale":"es"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if _, ok := decodeBody(t, resp)["tenant"]; !ok {
		t.Fatalf("expected tenant envelope, got %s", resp.Body.String())
	}
}
