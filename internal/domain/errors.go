package domain

import (
	"errors"
	"fmt"
)

// ErrCatNotFound возвращается, когда запись с указанным id отсутствует
var ErrCatNotFound = errors.New("cat not found")

// ValidationError описывает нарушенное правило валидации загружаемого файла.
// Message предназначено для показа пользователю рядом с полем формы.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s (%s): %s", e.Field, e.Rule, e.Message)
}

// StorageError оборачивает ошибку файлового хранилища
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("photo store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("photo store %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
