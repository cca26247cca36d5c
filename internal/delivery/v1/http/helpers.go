package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/internal/infrastructure"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const (
	maxTotalRequestSize = 20 << 20
	maxMemory           = 16 << 20
	maxFileSize         = 15 << 20
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ProductResponse — товар в ответах JSON API.
type ProductResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}

type SubmitProductResponse struct {
	Product  ProductResponse `json:"product"`
	ImageKey string          `json:"image_key"`
}

type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Count    int               `json:"count"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
	}
}

func NewListProductsResponse(products []domain.Product) *ListProductsResponse {
	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, NewProductResponse(&products[i]))
	}

	return &ListProductsResponse{Products: res, Count: len(res)}
}

func ToHTTPResponse(err error) (int, string) {
	var (
		vErr  *e.ValidationError
		dbErr *e.DatabaseError
	)

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusBadRequest, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUploadFailed):
		return http.StatusBadGateway, e.ErrUploadFailed.Error()
	case errors.As(err, &dbErr):
		if dbErr.SQLState != "" {
			return http.StatusInternalServerError, fmt.Sprintf("%s (SQLSTATE: %s)", e.ErrDatabase.Error(), dbErr.SQLState)
		}
		return http.StatusInternalServerError, e.ErrDatabase.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePrice разбирает строку вида "599.99" или "600".
// Пустая строка даёт nil: отсутствие цены проверяет usecase.
// Ошибка, если формат неверный, значение отрицательное или больше 10^9.
// Значение округляется до двух знаков.
func parsePrice(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return nil, e.ErrInvalidPrice
	}

	if d.IsNegative() {
		return nil, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return nil, e.ErrInvalidPrice
	}

	rounded := d.Round(2)
	return &rounded, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
	}

	return nil
}

// parseProductForm собирает запрос из полей формы. Пропущенные поля остаются
// пустыми, их проверяет usecase.
func parseProductForm(r *http.Request) (*usecase.SubmitProductReq, error) {
	price, err := parsePrice(r.FormValue("price"))
	if err != nil {
		return nil, err
	}

	image, err := parseImage(r.MultipartForm.File["image"])
	if err != nil {
		return nil, err
	}

	return usecase.NewSubmitProductReq(r.FormValue("name"), r.FormValue("description"), price, image), nil
}

// parseImage читает выбранный файл. Без файла возвращает nil.
func parseImage(files []*multipart.FileHeader) (*usecase.ProductImage, error) {
	if len(files) == 0 || files[0].Size == 0 {
		return nil, nil
	}

	fh := files[0]
	if _, err := infrastructure.ContentTypeFromName(fh.Filename); err != nil {
		return nil, e.Wrap(fh.Filename, err)
	}

	data, err := readFile(fh, maxFileSize)
	if err != nil {
		return nil, err
	}

	return usecase.NewProductImage(data, infrastructure.BaseName(fh.Filename)), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if fh.Size > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	return data, nil
}

func sqlStateOf(err error) string {
	var dbErr *e.DatabaseError
	if errors.As(err, &dbErr) {
		return dbErr.SQLState
	}

	return ""
}
