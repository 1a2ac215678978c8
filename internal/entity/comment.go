package entity

import "time"

type Comment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PostID uint `gorm:"not null;index" json:"post-id"`
	Post   Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;" json:"-"`

	AuthorID uint `gorm:"not null;index" json:"author-id"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"author"`

	Text    string    `gorm:"type:text;not null" json:"text"`
	Created time.Time `gorm:"autoCreateTime;not null;index" json:"created"`
}

func (c Comment) String() string {
	return shorten(c.Text)
}
