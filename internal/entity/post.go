package entity

import "time"

// Number of characters shown wherever a post or comment is printed as a string.
const ShortTextLength = 15

type Post struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	PubDate time.Time `gorm:"autoCreateTime;not null;index" json:"pub-date"`

	AuthorID uint `gorm:"not null;index" json:"author-id"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"author"`

	GroupID *uint  `gorm:"index" json:"group-id"`
	Group   *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL;" json:"group,omitempty"`

	Image string `gorm:"size:255" json:"image"` // path inside the media storage, "" when absent
}

func (p Post) String() string {
	return shorten(p.Text)
}

func (p Post) HasImage() bool {
	return p.Image != ""
}

func shorten(text string) string {
	runes := []rune(text)
	if len(runes) <= ShortTextLength {
		return text
	}
	return string(runes[:ShortTextLength])
}
