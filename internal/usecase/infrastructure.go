package usecase

import "context"

type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
}

type MessageProducer interface {
	WriteMessage(ctx context.Context, req *WriteMessageReq) error
}
