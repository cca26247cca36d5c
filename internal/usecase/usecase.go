package usecase

import "context"

type ProductUC interface {
	SubmitProduct(ctx context.Context, req *SubmitProductReq) (*SubmitProductRes, error)
	ListProducts(ctx context.Context) (*ListProductsRes, error)
}
