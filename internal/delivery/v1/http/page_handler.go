package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/internal/view"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
)

// Тексты сообщений формы.
const (
	msgMissingFields     = "Por favor, preencha todos os campos e selecione uma imagem antes de salvar."
	msgInvalidPrice      = "Preço inválido: informe um valor numérico não negativo."
	msgUnsupportedImage  = "Formato de imagem não suportado. Use .jpg, .jpeg ou .png."
	msgFileTooLarge      = "A imagem excede o tamanho máximo permitido."
	msgUploadFailed      = "Erro ao fazer upload da imagem: %v"
	msgUploadSucceeded   = "Imagem enviada para o Blob Storage com sucesso!"
	msgInsertSucceeded   = "Produto salvo com sucesso no banco de dados!"
	msgInsertFailed      = "Erro ao inserir produto no banco de dados (SQLSTATE: %s): %v"
	msgListSucceeded     = "Produtos carregados do banco de dados com sucesso!"
	msgListFailed        = "Erro ao carregar produtos do banco de dados (SQLSTATE: %s): %v"
	msgNoProducts        = "Nenhum produto encontrado para listar."
	msgUnexpectedFailure = "Erro inesperado: %v"
)

// PageHandler обслуживает HTML-форму: сохранение товара и вывод списка.
type PageHandler struct {
	productUsecase usecase.ProductUC
	renderer       *view.Renderer
	logger         logger.Logger
}

func NewPageHandler(productUsecase usecase.ProductUC, renderer *view.Renderer, logger logger.Logger) *PageHandler {
	return &PageHandler{productUsecase: productUsecase, renderer: renderer, logger: logger}
}

func (p *PageHandler) index(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusOK, &view.Page{Columns: view.DefaultColumns})
}

// save — кнопка «Salvar Produto».
func (p *PageHandler) save(w http.ResponseWriter, r *http.Request) {
	page := &view.Page{Columns: view.DefaultColumns}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %v", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err)
		p.renderError(w, page, err)
		return
	}

	req, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %v", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err)
		p.renderError(w, page, err)
		return
	}

	res, err := p.productUsecase.SubmitProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%v", err)

		// Вставка не удалась уже после загрузки изображения
		if errors.Is(err, e.ErrDatabase) {
			page.AddFlash(view.LevelSuccess, msgUploadSucceeded)
		}
		p.renderError(w, page, err)
		return
	}

	p.logger.Infof("product %d submitted via form", res.Product.ID)
	page.AddFlash(view.LevelSuccess, msgUploadSucceeded)
	page.AddFlash(view.LevelSuccess, msgInsertSucceeded)
	p.render(w, http.StatusOK, page)
}

// list — кнопка «Listar Produtos».
func (p *PageHandler) list(w http.ResponseWriter, r *http.Request) {
	page := &view.Page{Columns: view.DefaultColumns, Listed: true}
	status := http.StatusOK

	res, err := p.productUsecase.ListProducts(r.Context())
	switch {
	case err != nil:
		p.logger.Errorf(err, "failed to list products")
		page.AddFlash(view.LevelError, fmt.Sprintf(msgListFailed, sqlStateOf(err), err))
		status, _ = ToHTTPResponse(err)
	case len(res.Products) == 0:
		page.AddFlash(view.LevelWarning, msgNoProducts)
	default:
		page.AddFlash(view.LevelSuccess, msgListSucceeded)
	}

	if res != nil {
		page.Products = res.Products
	}

	p.render(w, status, page)
}

// renderError добавляет сообщение, соответствующее ошибке, и перерисовывает форму.
func (p *PageHandler) renderError(w http.ResponseWriter, page *view.Page, err error) {
	status, _ := ToHTTPResponse(err)
	page.AddFlash(flashForError(err))
	p.render(w, status, page)
}

func flashForError(err error) (string, string) {
	switch {
	case errors.Is(err, e.ErrMissingFields):
		return view.LevelWarning, msgMissingFields
	case errors.Is(err, e.ErrInvalidPrice):
		return view.LevelWarning, msgInvalidPrice
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return view.LevelWarning, msgUnsupportedImage
	case errors.Is(err, e.ErrFileTooLarge):
		return view.LevelWarning, msgFileTooLarge
	case errors.Is(err, e.ErrExpectedMultipart), errors.Is(err, e.ErrStatusBadRequest):
		return view.LevelWarning, msgMissingFields
	case errors.Is(err, e.ErrUploadFailed):
		var uErr *e.UploadError
		if errors.As(err, &uErr) {
			return view.LevelError, fmt.Sprintf(msgUploadFailed, uErr.Err)
		}
		return view.LevelError, fmt.Sprintf(msgUploadFailed, err)
	case errors.Is(err, e.ErrDatabase):
		var dbErr *e.DatabaseError
		if errors.As(err, &dbErr) {
			return view.LevelError, fmt.Sprintf(msgInsertFailed, dbErr.SQLState, dbErr.Err)
		}
		return view.LevelError, fmt.Sprintf(msgInsertFailed, "", err)
	default:
		return view.LevelError, fmt.Sprintf(msgUnexpectedFailure, err)
	}
}

func (p *PageHandler) render(w http.ResponseWriter, status int, page *view.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := p.renderer.Render(w, page); err != nil {
		p.logger.Errorf(err, "failed to render page")
	}
}
