package usecase

import (
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"github.com/GoArmGo/CatsApp/internal/domain"
)

// PhotoField имя поля формы загрузки
const PhotoField = "photo"

// Имена правил валидации
const (
	RuleRequired = "required"
	RuleImage    = "image"
	RuleMax      = "max"
)

// DefaultMaxUploadBytes 5MB
const DefaultMaxUploadBytes int64 = 5 * 1024 * 1024

// UploadRules явный список ограничений для загружаемого файла
type UploadRules struct {
	Required     bool
	AllowedTypes []string
	MaxBytes     int64
}

// DefaultUploadRules: обязательный файл, jpeg/png/gif/webp, не больше 5MB
func DefaultUploadRules() UploadRules {
	return UploadRules{
		Required:     true,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		MaxBytes:     DefaultMaxUploadBytes,
	}
}

// ValidatedPhoto прочитанный и проверенный файл
type ValidatedPhoto struct {
	Content      []byte
	ContentType  string
	OriginalName string
}

// Validate проверяет загрузку в порядке required, image, max.
// Тип определяется по содержимому файла, а не по заголовку клиента.
func (r UploadRules) Validate(upload *Upload) (*ValidatedPhoto, error) {
	if upload == nil || upload.Content == nil {
		if r.Required {
			return nil, r.fail(RuleRequired)
		}
		return nil, nil
	}

	// читаем на байт больше лимита, чтобы отличить "ровно лимит" от превышения
	content, err := io.ReadAll(io.LimitReader(upload.Content, r.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(content) == 0 && r.Required {
		return nil, r.fail(RuleRequired)
	}

	mime := mimetype.Detect(content)
	if !r.allowed(mime) {
		return nil, r.fail(RuleImage)
	}

	if int64(len(content)) > r.MaxBytes || upload.Size > r.MaxBytes {
		return nil, r.fail(RuleMax)
	}

	return &ValidatedPhoto{
		Content:      content,
		ContentType:  mime.String(),
		OriginalName: upload.Filename,
	}, nil
}

func (r UploadRules) allowed(mime *mimetype.MIME) bool {
	for _, t := range r.AllowedTypes {
		if mime.Is(t) {
			return true
		}
	}
	return false
}

func (r UploadRules) fail(rule string) *domain.ValidationError {
	return &domain.ValidationError{Field: PhotoField, Rule: rule, Message: r.message(rule)}
}

func (r UploadRules) message(rule string) string {
	switch rule {
	case RuleRequired:
		return "Please choose a cat photo."
	case RuleImage:
		return "Supported image formats are jpeg / jpg / png / gif / webp."
	case RuleMax:
		return fmt.Sprintf("Image size must be %s or less.", formatBytes(r.MaxBytes))
	default:
		return "The photo is invalid."
	}
}

func formatBytes(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	if n%1024 == 0 {
		return fmt.Sprintf("%dKB", n/1024)
	}
	return fmt.Sprintf("%d bytes", n)
}

// TooLarge возвращает ошибку правила max; используется, когда тело запроса
// оборвано лимитом ещё до чтения файла
func (r UploadRules) TooLarge() *domain.ValidationError {
	return r.fail(RuleMax)
}
