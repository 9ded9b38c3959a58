package domain

import "time"

// Cat представляет загруженную фотографию кота со счётчиком лайков,
// соответствует таблице cats в бд
type Cat struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	ImagePath string    `json:"image_path" db:"image_path" gorm:"not null"`
	Likes     int       `json:"likes" db:"likes" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (Cat) TableName() string {
	return "cats"
}
