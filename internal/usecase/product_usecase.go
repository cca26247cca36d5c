package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
)

// defaultPublishTimeout ограничивает ожидание брокера внутри запроса сохранения.
const defaultPublishTimeout = 2 * time.Second

// ProductUseCase реализует сценарии формы: сохранение товара и вывод списка.
// Состояния между вызовами не хранит: каждый вызов заново валидирует данные.
type ProductUseCase struct {
	productRepo ProductRepository
	imagesInfra ImagesInfra
	cacheRepo   CacheRepository // nil, если кэш выключен
	producer    MessageProducer // nil, если события выключены
	logger      logger.Logger

	publishTimeout time.Duration
}

func NewProductUC(
	productRepo ProductRepository,
	imagesInfra ImagesInfra,
	cacheRepo CacheRepository,
	producer MessageProducer,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		imagesInfra: imagesInfra,
		cacheRepo:   cacheRepo,
		producer:    producer,
		logger:      logger,

		publishTimeout: defaultPublishTimeout,
	}
}

// SubmitProduct проверяет поля формы, загружает изображение и только после
// получения URL сохраняет строку товара.
func (p *ProductUseCase) SubmitProduct(ctx context.Context, req *SubmitProductReq) (*SubmitProductRes, error) {
	const op = "ProductUseCase.SubmitProduct"

	// Валидация данных, без сетевых вызовов
	if err := p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Сохранение изображения в blob-хранилище
	imageRes, err := p.uploadImage(ctx, req.Image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	p.logger.Infof("image uploaded: key=%s", imageRes.Key)

	product := domain.NewProduct(
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.Description),
		req.Price.Round(2),
		imageRes.URL,
	)

	saved, err := p.productRepo.Insert(ctx, product)
	if err != nil {
		// Изображение остаётся в хранилище без строки в БД
		p.logger.Warnf("product %q not saved, uploaded image %s left in storage: %v", product.Name, imageRes.Key, err)
		return nil, e.Wrap(op, err)
	}
	p.logger.Infof("product saved: id=%d name=%q", saved.ID, saved.Name)

	p.invalidateCache(ctx)
	p.publishCreated(ctx, saved)

	return NewSubmitProductRes(saved, imageRes.Key), nil
}

// ListProducts возвращает все товары. При ошибке БД список пустой, а ошибка
// возвращается вместе с ним.
func (p *ProductUseCase) ListProducts(ctx context.Context) (*ListProductsRes, error) {
	const op = "ProductUseCase.ListProducts"

	// Поколение читается до запроса к БД: снимок, сделанный до чужой вставки,
	// уйдёт под старое поколение и не будет отдан
	var (
		generation int64
		cacheable  bool
	)
	if p.cacheRepo != nil {
		cached, err := p.cacheRepo.GetProducts(ctx)
		switch {
		case err != nil:
			p.logger.Warnf("products cache read failed: %v", e.Wrap(op, err))
		case cached.Hit:
			return NewListProductsRes(cached.Products, true), nil
		default:
			generation, cacheable = cached.Generation, true
		}
	}

	products, err := p.productRepo.FetchAll(ctx)
	if err != nil {
		return NewListProductsRes(nil, false), e.Wrap(op, err)
	}

	if cacheable {
		if err := p.cacheRepo.SetProducts(ctx, generation, products); err != nil {
			p.logger.Warnf("products cache write failed: %v", e.Wrap(op, err))
		}
	}

	return NewListProductsRes(products, false), nil
}

// uploadImage загружает изображение и превращает любую ошибку хранилища в UploadError.
func (p *ProductUseCase) uploadImage(ctx context.Context, image *ProductImage) (*UploadImageRes, error) {
	res, err := p.imagesInfra.UploadImage(ctx, NewUploadImageReq(image.Name, image.Data))
	if err != nil {
		return nil, e.NewUploadError(err)
	}

	return res, nil
}

func (p *ProductUseCase) invalidateCache(ctx context.Context) {
	if p.cacheRepo == nil {
		return
	}

	if err := p.cacheRepo.InvalidateProducts(ctx); err != nil {
		p.logger.Warnf("Failed to invalidate products cache: %v", err)
	}
}

func (p *ProductUseCase) publishCreated(ctx context.Context, product *domain.Product) {
	if p.producer == nil {
		return
	}

	// Товар уже сохранён: отмена запроса клиентом не должна терять событие,
	// а медленный брокер не должен держать ответ дольше publishTimeout
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.publishTimeout)
	defer cancel()

	if err := p.producer.WriteMessage(ctx, NewWriteMessageReq(product)); err != nil {
		p.logger.Warnf("Failed to publish product created event (id=%d): %v", product.ID, err)
	}
}

// validateProduct проверяет, что все обязательные поля формы заполнены.
func (p *ProductUseCase) validateProduct(req *SubmitProductReq) error {
	var missing []string

	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}

	if req.Price == nil {
		missing = append(missing, "price")
	}

	if strings.TrimSpace(req.Description) == "" {
		missing = append(missing, "description")
	}

	if req.Image == nil || len(req.Image.Data) == 0 {
		missing = append(missing, "image")
	}

	if len(missing) > 0 {
		return e.NewValidationError(missing...)
	}

	if req.Price.IsNegative() {
		return e.ErrInvalidPrice
	}

	return nil
}
