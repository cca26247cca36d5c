package http

import (
	"net/http"

	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// submitProduct
//
//	@Summary		Cadastro de produto
//	@Description	Загружает изображение в blob-хранилище и сохраняет товар с его URL
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name		formData	string					true	"Nome do produto"
//	@Param			price		formData	number					true	"Preço"
//	@Param			description	formData	string					true	"Descrição"
//	@Param			image		formData	file					true	"Imagem (.jpg, .jpeg, .png)"
//	@Success		201			{object}	SubmitProductResponse	"Produto salvo"
//	@Failure		400			{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		502			{object}	ErrorResponse			"Ошибка загрузки изображения"
//	@Failure		500			{object}	ErrorResponse			"Ошибка базы данных"
//	@Router			/products [post]
func (p *ProductHandler) submitProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	req, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.SubmitProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, &SubmitProductResponse{
		Product:  NewProductResponse(res.Product),
		ImageKey: res.ImageKey,
	})
}

// listProducts
//
//	@Summary		Lista de produtos
//	@Description	Возвращает все товары без пагинации
//	@Tags			products
//	@Produce		json
//	@Success		200	{object}	ListProductsResponse
//	@Failure		500	{object}	ErrorResponse	"Ошибка базы данных"
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	res, err := p.productUsecase.ListProducts(r.Context())
	if err != nil {
		p.logger.Errorf(err, "failed to list products")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewListProductsResponse(res.Products))
}
