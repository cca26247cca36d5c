package e

import (
	"fmt"
	"strings"
)

var (
	// Internal transaction errors
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrFileTooLarge         = fmt.Errorf("file too large")

	// 502 Bad Gateway
	ErrUploadFailed = fmt.Errorf("image upload failed")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
	ErrDatabase            = fmt.Errorf("database error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// ValidationError перечисляет обязательные поля формы, не заполненные при отправке.
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFields.Error(), strings.Join(v.Fields, ", "))
}

func (v *ValidationError) Unwrap() error {
	return ErrMissingFields
}

// UploadError — любая ошибка обращения к blob-хранилищу.
type UploadError struct {
	Err error
}

func NewUploadError(err error) *UploadError {
	return &UploadError{Err: err}
}

func (u *UploadError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUploadFailed.Error(), u.Err)
}

// Is: errors.Is(err, ErrUploadFailed) истинно для любой UploadError.
func (u *UploadError) Is(target error) bool {
	return target == ErrUploadFailed
}

func (u *UploadError) Unwrap() error {
	return u.Err
}

// DatabaseError — ошибка подключения, выполнения запроса или коммита.
// SQLState содержит код состояния, если его вернул сервер.
type DatabaseError struct {
	Op       string
	SQLState string
	Err      error
}

func NewDatabaseError(op string, sqlState string, err error) *DatabaseError {
	return &DatabaseError{
		Op:       op,
		SQLState: sqlState,
		Err:      err,
	}
}

func (d *DatabaseError) Error() string {
	if d.SQLState == "" {
		return fmt.Sprintf("%s: %s: %v", d.Op, ErrDatabase.Error(), d.Err)
	}

	return fmt.Sprintf("%s: %s (SQLSTATE: %s): %v", d.Op, ErrDatabase.Error(), d.SQLState, d.Err)
}

func (d *DatabaseError) Is(target error) bool {
	return target == ErrDatabase
}

func (d *DatabaseError) Unwrap() error {
	return d.Err
}
