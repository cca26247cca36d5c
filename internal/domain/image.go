package domain

// Image описывает изображение, которое загружается в blob-хранилище
type Image struct {
	ID          string // uuid
	Container   string
	ObjectKey   string
	Bytes       []byte
	Size        int64
	ContentType string // "image/png", "image/jpeg"
}

func NewImage(id string, container string, objectKey string, data []byte, contentType string) *Image {
	return &Image{
		ID:          id,
		Container:   container,
		ObjectKey:   objectKey,
		Bytes:       data,
		Size:        int64(len(data)),
		ContentType: contentType,
	}
}
