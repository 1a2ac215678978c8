package entity

// Follow is a directed edge: User subscribes to Author's posts.
// The pair is unique and a user can not follow themself; both are enforced by the database.
type Follow struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"not null;uniqueIndex:idx_follow_user_author;check:chk_follows_not_self,user_id <> author_id" json:"user-id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`

	AuthorID uint `gorm:"not null;uniqueIndex:idx_follow_user_author;index" json:"author-id"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"-"`
}
