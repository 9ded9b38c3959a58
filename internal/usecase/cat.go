package usecase

import (
	"context"
	"io"
	"time"
)

// Upload описывает файл, пришедший из формы. nil означает, что файл не выбран.
type Upload struct {
	Filename string
	// Size заявленный размер, 0 если неизвестен
	Size    int64
	Content io.Reader
}

// CatView представление одной записи для отображения
type CatView struct {
	ID        int64     `json:"id"`
	ImagePath string    `json:"image_path"`
	ImageURL  string    `json:"image_url"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CatsView список котов, новые первыми, пересчитывается после каждого действия
type CatsView struct {
	Cats  []CatView `json:"cats"`
	Total int       `json:"total"`
}

// CatUseCase определяет бизнес-логику загрузки, лайков и удаления фотографий котов
type CatUseCase interface {
	// ListCats возвращает текущий список
	ListCats(ctx context.Context) (*CatsView, error)

	// SubmitUpload валидирует файл, сохраняет его в хранилище и создаёт запись.
	// При нарушении правил возвращает *domain.ValidationError без изменений состояния.
	SubmitUpload(ctx context.Context, upload *Upload) (*CatsView, error)

	// LikeCat увеличивает likes на 1, domain.ErrCatNotFound если записи нет
	LikeCat(ctx context.Context, id int64) (*CatsView, error)

	// DeleteCat удаляет запись и (best-effort) её файл
	DeleteCat(ctx context.Context, id int64) (*CatsView, error)
}
