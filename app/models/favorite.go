package models

import "time"

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_listing" json:"user_id"`
	ListingID uint      `gorm:"not null;uniqueIndex:idx_favorite_user_listing;index" json:"listing_id"`
	Listing   Listing   `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"listing"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReviewerID uint      `gorm:"not null;index" json:"reviewer_id"`
	Reviewer   User      `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE" json:"reviewer"`
	ReviewedID uint      `gorm:"not null;index" json:"reviewed_id"`
	Reviewed   User      `gorm:"foreignKey:ReviewedID;constraint:OnDelete:CASCADE" json:"reviewed"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    *string   `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	Sender     User      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Receiver   User      `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"receiver"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
