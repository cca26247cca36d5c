package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/internal/view"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type fakeProductUC struct {
	submitCalls int
	lastReq     *usecase.SubmitProductReq
	submitErr   error
	products    []domain.Product
	listErr     error
}

func (f *fakeProductUC) SubmitProduct(_ context.Context, req *usecase.SubmitProductReq) (*usecase.SubmitProductRes, error) {
	f.submitCalls++
	f.lastReq = req
	if f.submitErr != nil {
		return nil, f.submitErr
	}

	if req.Name == "" || req.Price == nil || req.Description == "" || req.Image == nil {
		return nil, e.NewValidationError("name")
	}

	product := domain.NewProduct(req.Name, req.Description, *req.Price, "https://acc.blob.core.windows.net/produtos/k_"+req.Image.Name)
	product.ID = 1
	return usecase.NewSubmitProductRes(product, "k_"+req.Image.Name), nil
}

func (f *fakeProductUC) ListProducts(context.Context) (*usecase.ListProductsRes, error) {
	if f.listErr != nil {
		return usecase.NewListProductsRes(nil, false), f.listErr
	}
	return usecase.NewListProductsRes(f.products, false), nil
}

func newTestRouter(t *testing.T, uc usecase.ProductUC) http.Handler {
	t.Helper()

	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	mux := chi.NewRouter()
	NewRouter(mux, logger.Discard()).Init(uc, renderer)
	return mux
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, file []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("image", fileName)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	return body, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{"name": "Cadeira", "price": "149.9", "description": "Madeira"}
}

func TestAPISubmitProduct(t *testing.T) {
	uc := &fakeProductUC{}
	h := newTestRouter(t, uc)

	body, ct := multipartBody(t, validFields(), "cadeira.png", []byte{0x89, 'P', 'N', 'G'})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res SubmitProductResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Product.Price != "149.90" || res.ImageKey != "k_cadeira.png" {
		t.Errorf("unexpected response: %+v", res)
	}
	if uc.lastReq.Image == nil || uc.lastReq.Image.Name != "cadeira.png" || len(uc.lastReq.Image.Data) != 4 {
		t.Errorf("image not passed through: %+v", uc.lastReq.Image)
	}
}

func TestAPISubmitErrors(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		fileName   string
		ucErr      error
		wantStatus int
		wantCalls  int
	}{
		{"negative price", map[string]string{"name": "a", "price": "-1", "description": "b"}, "a.png", nil, http.StatusBadRequest, 0},
		{"price not a number", map[string]string{"name": "a", "price": "abc", "description": "b"}, "a.png", nil, http.StatusBadRequest, 0},
		{"price too large", map[string]string{"name": "a", "price": "1000000000.01", "description": "b"}, "a.png", nil, http.StatusBadRequest, 0},
		{"gif rejected", validFields(), "a.gif", nil, http.StatusBadRequest, 0},
		{"missing image", validFields(), "", nil, http.StatusBadRequest, 1},
		{"upload failed", validFields(), "a.jpg", e.NewUploadError(errors.New("timeout")), http.StatusBadGateway, 1},
		{"database failed", validFields(), "a.jpeg", e.NewDatabaseError("ProductRepo.Insert", "08001", errors.New("refused")), http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeProductUC{submitErr: tt.ucErr}
			h := newTestRouter(t, uc)

			body, ct := multipartBody(t, tt.fields, tt.fileName, []byte("data"))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if uc.submitCalls != tt.wantCalls {
				t.Errorf("usecase calls = %d, want %d", uc.submitCalls, tt.wantCalls)
			}

			var errRes ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&errRes); err != nil {
				t.Fatalf("error body is not json: %v", err)
			}
			if errRes.Code != tt.wantStatus {
				t.Errorf("body code = %d", errRes.Code)
			}
		})
	}
}

func TestAPISubmitDatabaseErrorCarriesSQLState(t *testing.T) {
	uc := &fakeProductUC{submitErr: e.NewDatabaseError("ProductRepo.Insert", "23502", errors.New("null value"))}
	h := newTestRouter(t, uc)

	body, ct := multipartBody(t, validFields(), "a.png", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "SQLSTATE: 23502") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAPISubmitNotMultipart(t *testing.T) {
	uc := &fakeProductUC{}
	h := newTestRouter(t, uc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"name":"a"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest || uc.submitCalls != 0 {
		t.Fatalf("status = %d, calls = %d", rec.Code, uc.submitCalls)
	}
}

func TestAPIListProducts(t *testing.T) {
	uc := &fakeProductUC{products: []domain.Product{
		{ID: 1, Name: "a", Price: decimal.RequireFromString("9.005")},
		{ID: 2, Name: "b", Price: decimal.NewFromInt(9)},
	}}
	h := newTestRouter(t, uc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var res ListProductsResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Count != 2 || res.Products[0].Price != "9.01" || res.Products[1].Price != "9.00" {
		t.Errorf("unexpected response: %+v", res)
	}
}

func TestAPIListProductsEmptyIsArray(t *testing.T) {
	h := newTestRouter(t, &fakeProductUC{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	if !strings.Contains(rec.Body.String(), `"products":[]`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPageIndex(t *testing.T) {
	h := newTestRouter(t, &fakeProductUC{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `name="image"`) {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
}

func TestPageSaveFlashes(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		fileName   string
		ucErr      error
		wantStatus int
		want       []string
		notWant    []string
	}{
		{
			name:       "success",
			fields:     validFields(),
			fileName:   "a.png",
			wantStatus: http.StatusOK,
			want:       []string{msgUploadSucceeded, msgInsertSucceeded},
		},
		{
			name:       "missing fields",
			fields:     map[string]string{"name": "", "price": "", "description": ""},
			fileName:   "",
			wantStatus: http.StatusBadRequest,
			want:       []string{msgMissingFields},
			notWant:    []string{msgUploadSucceeded},
		},
		{
			name:       "upload failed",
			fields:     validFields(),
			fileName:   "a.png",
			ucErr:      e.NewUploadError(errors.New("container not found")),
			wantStatus: http.StatusBadGateway,
			want:       []string{"Erro ao fazer upload da imagem: container not found"},
			notWant:    []string{msgUploadSucceeded},
		},
		{
			name:       "insert failed",
			fields:     validFields(),
			fileName:   "a.png",
			ucErr:      e.NewDatabaseError("ProductRepo.Insert", "23502", errors.New("null value")),
			wantStatus: http.StatusInternalServerError,
			want:       []string{msgUploadSucceeded, "Erro ao inserir produto no banco de dados (SQLSTATE: 23502): null value"},
			notWant:    []string{msgInsertSucceeded},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, &fakeProductUC{submitErr: tt.ucErr})

			body, ct := multipartBody(t, tt.fields, tt.fileName, []byte("data"))
			req := httptest.NewRequest(http.MethodPost, "/products", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			out := rec.Body.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("page missing %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("page must not contain %q", s)
				}
			}
		})
	}
}

func TestPageList(t *testing.T) {
	products := make([]domain.Product, 0, 7)
	for i := 1; i <= 7; i++ {
		products = append(products, domain.Product{ID: int64(i), Name: "p", Price: decimal.NewFromInt(1)})
	}
	h := newTestRouter(t, &fakeProductUC{products: products})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	out := rec.Body.String()
	if !strings.Contains(out, msgListSucceeded) {
		t.Error("success flash missing")
	}
	if got := strings.Count(out, `class="grid-row"`); got != 3 {
		t.Errorf("grid rows = %d, want 3", got)
	}
	if got := strings.Count(out, `class="card"`); got != 7 {
		t.Errorf("cards = %d, want 7", got)
	}
}

func TestPageListEmptyAndFailure(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		h := newTestRouter(t, &fakeProductUC{})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

		out := rec.Body.String()
		if !strings.Contains(out, msgNoProducts) || !strings.Contains(out, view.EmptyGridText) {
			t.Errorf("empty list messages missing: %s", out)
		}
	})

	t.Run("database error", func(t *testing.T) {
		h := newTestRouter(t, &fakeProductUC{listErr: e.NewDatabaseError("ProductRepo.FetchAll", "42P01", errors.New("no table"))})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

		out := rec.Body.String()
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d", rec.Code)
		}
		if !strings.Contains(out, "SQLSTATE: 42P01") || !strings.Contains(out, view.EmptyGridText) {
			t.Errorf("failure rendering wrong: %s", out)
		}
	})
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantNil bool
		wantErr bool
	}{
		{in: "", wantNil: true},
		{in: "  ", wantNil: true},
		{in: "9", want: "9"},
		{in: "9.005", want: "9.01"},
		{in: "12,5", want: "12.5"},
		{in: "0", want: "0"},
		{in: "1000000000", want: "1000000000"},
		{in: "1000000000.01", wantErr: true},
		{in: "-0.01", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parsePrice(tt.in)
		switch {
		case tt.wantErr:
			if !errors.Is(err, e.ErrInvalidPrice) {
				t.Errorf("parsePrice(%q) err = %v, want ErrInvalidPrice", tt.in, err)
			}
		case tt.wantNil:
			if got != nil || err != nil {
				t.Errorf("parsePrice(%q) = %v, %v, want nil", tt.in, got, err)
			}
		default:
			if err != nil || got == nil || !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("parsePrice(%q) = %v, %v, want %s", tt.in, got, err, tt.want)
			}
		}
	}
}
