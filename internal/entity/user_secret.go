package entity

type UserSecret struct {
	UserID uint   `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Hash   string `gorm:"not null"`
}
