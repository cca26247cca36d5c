package infrastructure

import (
	"path"
	"strings"

	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/h2non/filetype"
)

// allowedExtensions — расширения, которые принимает форма, и их имя в реестре filetype.
var allowedExtensions = map[string]string{
	"jpg":  "jpg",
	"jpeg": "jpg",
	"png":  "png",
}

// ContentTypeFromName возвращает MIME-тип изображения по расширению файла.
// Поддерживает jpg, jpeg, png. Для остальных возвращает e.ErrUnsupportedMediaType.
func ContentTypeFromName(name string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(BaseName(name))), ".")

	key, ok := allowedExtensions[ext]
	if !ok {
		return "", e.ErrUnsupportedMediaType
	}

	kind := filetype.GetType(key)
	if kind == filetype.Unknown {
		return "", e.ErrUnsupportedMediaType
	}

	return kind.MIME.Value, nil
}

// BaseName отбрасывает путь, который некоторые браузеры передают вместе с именем файла.
func BaseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return path.Base(name)
}
