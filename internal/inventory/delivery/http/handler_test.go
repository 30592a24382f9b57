package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// stubRepo is a resettable in-memory InventoryRepository for handler tests
type stubRepo struct {
	antibiotics  map[string]*domain.Antibiotic
	antibiograms []domain.Antibiogram
	associations map[uint][]string
	outflows     []domain.Outflow
}

func (s *stubRepo) reset() {
	s.antibiotics = map[string]*domain.Antibiotic{}
	s.antibiograms = nil
	s.associations = map[uint][]string{}
	s.outflows = nil
}

func (s *stubRepo) add(code, name string, quantity, minStock int) {
	s.antibiotics[code] = &domain.Antibiotic{Code: code, Name: name, Quantity: quantity, MinStock: minStock}
}

func (s *stubRepo) ListAntibiotics(ctx context.Context) ([]domain.Antibiotic, error) {
	items := []domain.Antibiotic{}
	for _, a := range s.antibiotics {
		items = append(items, *a)
	}
	return items, nil
}

func (s *stubRepo) FindAntibiotic(ctx context.Context, code string) (*domain.Antibiotic, error) {
	a, ok := s.antibiotics[code]
	if !ok {
		return nil, domain.ErrAntibioticNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *stubRepo) ListAntibiograms(ctx context.Context) ([]domain.Antibiogram, error) {
	return s.antibiograms, nil
}

func (s *stubRepo) ListLowStock(ctx context.Context) ([]domain.Antibiotic, error) {
	items := []domain.Antibiotic{}
	for _, a := range s.antibiotics {
		if a.Quantity <= a.MinStock {
			items = append(items, *a)
		}
	}
	return items, nil
}

func (s *stubRepo) AssociatedCodes(ctx context.Context, antibiogramID uint) ([]string, error) {
	codes := s.associations[antibiogramID]
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

func (s *stubRepo) AssociatedAntibiotics(ctx context.Context, antibiogramID uint) ([]domain.Antibiotic, error) {
	items := []domain.Antibiotic{}
	for _, code := range s.associations[antibiogramID] {
		if a, ok := s.antibiotics[code]; ok {
			items = append(items, *a)
		}
	}
	return items, nil
}

func (s *stubRepo) ReplaceAssociations(ctx context.Context, antibiogramID uint, codes []string) error {
	links := []string{}
	seen := map[string]bool{}
	for _, code := range codes {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		links = append(links, code)
	}
	s.associations[antibiogramID] = links
	return nil
}

func (s *stubRepo) UpdateStock(ctx context.Context, code string, quantity, minStock int) (*domain.Antibiotic, error) {
	a, ok := s.antibiotics[code]
	if !ok {
		return nil, domain.ErrAntibioticNotFound
	}
	a.Quantity = quantity
	a.MinStock = minStock
	copied := *a
	return &copied, nil
}

func (s *stubRepo) SubtractStock(ctx context.Context, code string, quantity int) (*domain.Antibiotic, error) {
	a, ok := s.antibiotics[code]
	if !ok {
		return nil, domain.ErrAntibioticNotFound
	}
	if a.Quantity < quantity {
		return nil, &domain.InsufficientStockError{Items: []domain.StockShortfall{{
			Code: a.Code, Name: a.Name, Available: a.Quantity, Requested: quantity,
		}}}
	}
	a.Quantity -= quantity
	copied := *a
	return &copied, nil
}

func (s *stubRepo) RegisterOutflow(ctx context.Context, antibiogramID uint, units int) error {
	codes := s.associations[antibiogramID]
	if len(codes) == 0 {
		return domain.ErrNoAssociations
	}

	var shortfalls []domain.StockShortfall
	for _, code := range codes {
		a := s.antibiotics[code]
		if a.Quantity-units < 0 {
			shortfalls = append(shortfalls, domain.StockShortfall{
				Code: a.Code, Name: a.Name, Available: a.Quantity, Requested: units,
			})
		}
	}
	if len(shortfalls) > 0 {
		return &domain.InsufficientStockError{Items: shortfalls}
	}

	for _, code := range codes {
		s.antibiotics[code].Quantity -= units
	}
	s.outflows = append(s.outflows, domain.Outflow{AntibiogramID: antibiogramID, Units: units})
	return nil
}

func (s *stubRepo) ListOutflows(ctx context.Context, limit int) ([]domain.Outflow, error) {
	return s.outflows, nil
}

// One handler for the whole package: metric vectors register globally
var (
	setupOnce  sync.Once
	testRepo   = &stubRepo{}
	testRouter *mux.Router
)

func setup(t *testing.T) *stubRepo {
	t.Helper()
	setupOnce.Do(func() {
		handler := NewInventoryHandler(testRepo)
		testRouter = mux.NewRouter()
		handler.RegisterRoutes(testRouter)
	})
	testRepo.reset()
	return testRepo
}

func doRequest(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, req)
	return rec
}

func TestListAntibiograms(t *testing.T) {
	repo := setup(t)
	repo.antibiograms = []domain.Antibiogram{
		{ID: 1, Name: "Urocultivo"},
		{ID: 2, Name: "Hemocultivo"},
	}

	rec := doRequest("GET", "/antibiogramas", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []domain.Antibiogram
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestGetAntibiotic_NotFound(t *testing.T) {
	setup(t)

	rec := doRequest("GET", "/antibioticos/XXX", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubtractStock_ReturnsUpdatedItem(t *testing.T) {
	repo := setup(t)
	repo.add("AMX", "Amoxicilina", 10, 5)

	rec := doRequest("POST", "/antibioticos/AMX/restar", map[string]int{"quantity": 4})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ok   bool              `json:"ok"`
		Item domain.Antibiotic `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Ok)
	assert.Equal(t, 6, resp.Item.Quantity)
}

func TestSubtractStock_ConflictCarriesAvailableQuantity(t *testing.T) {
	repo := setup(t)
	repo.add("AMX", "Amoxicilina", 10, 5)

	rec := doRequest("POST", "/antibioticos/AMX/restar", map[string]int{"quantity": 12})
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["ok"])
	assert.Equal(t, float64(10), resp["cantidad"])

	// Quantity unchanged
	assert.Equal(t, 10, repo.antibiotics["AMX"].Quantity)
}

func TestSubtractStock_RejectsNonPositive(t *testing.T) {
	repo := setup(t)
	repo.add("AMX", "Amoxicilina", 10, 5)

	rec := doRequest("POST", "/antibioticos/AMX/restar", map[string]int{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 10, repo.antibiotics["AMX"].Quantity)
}

func TestSubtractStock_RejectsNonInteger(t *testing.T) {
	repo := setup(t)
	repo.add("AMX", "Amoxicilina", 10, 5)

	rec := doRequest("POST", "/antibioticos/AMX/restar", map[string]interface{}{"quantity": 2.5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 10, repo.antibiotics["AMX"].Quantity)
}

func TestUpdateStock(t *testing.T) {
	repo := setup(t)
	repo.add("AMX", "Amoxicilina", 10, 5)

	rec := doRequest("PUT", "/antibioticos/AMX", map[string]int{"quantity": 30, "threshold": 10})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ok   bool              `json:"ok"`
		Item domain.Antibiotic `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 30, resp.Item.Quantity)
	assert.Equal(t, 10, resp.Item.MinStock)
}

func TestUpdateStock_MissingFields(t *testing.T) {
	repo := setup(t)
	repo.add("AMX", "Amoxicilina", 10, 5)

	rec := doRequest("PUT", "/antibioticos/AMX", map[string]int{"quantity": 30})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStock_NotFound(t *testing.T) {
	setup(t)

	rec := doRequest("PUT", "/antibioticos/XXX", map[string]int{"quantity": 1, "threshold": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterOutflow_Success(t *testing.T) {
	repo := setup(t)
	repo.add("AMX", "Amoxicilina", 10, 5)
	repo.add("CIP", "Ciprofloxacino", 3, 2)
	repo.associations[3] = []string{"AMX", "CIP"}

	rec := doRequest("POST", "/salidas", map[string]int{"antibiogram_id": 3, "units": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 8, repo.antibiotics["AMX"].Quantity)
	assert.Equal(t, 1, repo.antibiotics["CIP"].Quantity)
	require.Len(t, repo.outflows, 1)
	assert.Equal(t, 2, repo.outflows[0].Units)
}

func TestRegisterOutflow_ConflictListsShortfalls(t *testing.T) {
	repo := setup(t)
	repo.add("AMX", "Amoxicilina", 10, 5)
	repo.add("CIP", "Ciprofloxacino", 3, 2)
	repo.associations[3] = []string{"AMX", "CIP"}

	rec := doRequest("POST", "/salidas", map[string]int{"antibiogram_id": 3, "units": 5})
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Ok        bool                    `json:"ok"`
		Faltantes []domain.StockShortfall `json:"faltantes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Faltantes, 1)
	assert.Equal(t, "CIP", resp.Faltantes[0].Code)
	assert.Equal(t, 3, resp.Faltantes[0].Available)

	// Atomicity: nothing changed, nothing logged
	assert.Equal(t, 10, repo.antibiotics["AMX"].Quantity)
	assert.Equal(t, 3, repo.antibiotics["CIP"].Quantity)
	assert.Empty(t, repo.outflows)
}

func TestRegisterOutflow_NoAssociations(t *testing.T) {
	setup(t)

	rec := doRequest("POST", "/salidas", map[string]int{"antibiogram_id": 9, "units": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterOutflow_RejectsNonPositive(t *testing.T) {
	setup(t)

	rec := doRequest("POST", "/salidas", map[string]int{"antibiogram_id": 3, "units": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest("POST", "/salidas", map[string]int{"antibiogram_id": 0, "units": 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReplaceAssociations_ReturnsSuppliedCount(t *testing.T) {
	repo := setup(t)

	rec := doRequest("POST", "/antibiogramas/3/antibioticos", map[string][]string{
		"codes": {"AMX", "AMX", "CIP"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ok    bool `json:"ok"`
		Count int  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Ok)
	assert.Equal(t, 3, resp.Count)
	assert.ElementsMatch(t, []string{"AMX", "CIP"}, repo.associations[3])
}

func TestReplaceAssociations_InvalidID(t *testing.T) {
	setup(t)

	rec := doRequest("POST", "/antibiogramas/abc/antibioticos", map[string][]string{"codes": {"AMX"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAssociatedCodes(t *testing.T) {
	repo := setup(t)
	repo.associations[3] = []string{"AMX", "CIP"}

	rec := doRequest("GET", "/antibiogramas/3/antibioticos", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var codes []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &codes))
	assert.ElementsMatch(t, []string{"AMX", "CIP"}, codes)
}

func TestGetAssociatedCodes_InvalidID(t *testing.T) {
	setup(t)

	rec := doRequest("GET", "/antibiogramas/abc/antibioticos", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLowStock(t *testing.T) {
	repo := setup(t)
	repo.add("AMX", "Amoxicilina", 10, 5)
	repo.add("CIP", "Ciprofloxacino", 2, 4)

	rec := doRequest("GET", "/alerts/low-stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ok    bool                `json:"ok"`
		Count int                 `json:"count"`
		Items []domain.Antibiotic `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Ok)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "CIP", resp.Items[0].Code)
}
