package repositories

import (
	"context"
	"fmt"

	"github.com/UltraPon/SellUp/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepositoryImpl interface {
	Thread(ctx context.Context, userID, otherID uint) ([]models.Message, error)
	Conversations(ctx context.Context, userID uint) ([]models.Message, error)
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	Create(ctx context.Context, message *models.Message) error
	MarkRead(ctx context.Context, id uint) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepositoryImpl {
	return &messageRepository{db: db}
}

func (r *messageRepository) withParties() *gorm.DB {
	return r.db.Preload("Sender").Preload("Receiver")
}

// Thread returns the messages exchanged between two users, oldest first.
func (r *messageRepository) Thread(ctx context.Context, userID, otherID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.withParties().WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, otherID, otherID, userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load thread: %w", err)
	}
	return messages, nil
}

// Conversations returns the latest message per interlocutor, most recent first.
func (r *messageRepository) Conversations(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.withParties().WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}

	seen := make(map[uint]bool)
	latest := make([]models.Message, 0)
	for _, m := range messages {
		other := m.SenderID
		if other == userID {
			other = m.ReceiverID
		}
		if seen[other] {
			continue
		}
		seen[other] = true
		latest = append(latest, m)
	}
	return latest, nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := r.withParties().WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error; err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("is_read", true).Error
}
