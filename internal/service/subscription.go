package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// SubscriptionService drives the follower/author relation.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe adds (user, author) to the relation and returns the
// subscription view of the author. Self-follows and duplicates are
// rejected; the unique index and check constraint settle races.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (types.SubscriptionView, error) {
	if userID == authorID {
		return types.SubscriptionView{}, ErrSelfSubscribe
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.SubscriptionView{}, ErrUserNotFound
		}
		return types.SubscriptionView{}, err
	}

	sub := models.Subscribe{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return types.SubscriptionView{}, ErrAlreadySubscribed
		}
		return types.SubscriptionView{}, err
	}

	return s.subscriptionView(ctx, &author)
}

// Unsubscribe removes exactly the one matching (user, author) row.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscribe{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// IsSubscribed reports whether viewer follows author. Anonymous viewers
// (nil) are never subscribed.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, viewer *uuid.UUID, authorID uuid.UUID) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscribe{}).
		Where("user_id = ? AND author_id = ?", *viewer, authorID).
		Count(&count).Error
	return count > 0, err
}

// Subscriptions lists the authors the user follows, each with their
// recipes and recipe count, newest subscription first.
func (s *SubscriptionService) Subscriptions(ctx context.Context, userID uuid.UUID, offset, limit int) ([]types.SubscriptionView, error) {
	var authors []models.User
	query := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN subscribes ON subscribes.author_id = users.id").
		Where("subscribes.user_id = ?", userID).
		Order("subscribes.created_at DESC")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&authors).Error; err != nil {
		return nil, err
	}

	views := make([]types.SubscriptionView, 0, len(authors))
	for i := range authors {
		view, err := s.subscriptionView(ctx, &authors[i])
		if err != nil {
			return nil, err
		}
		// The listing is the viewer's own subscriptions by construction.
		view.IsSubscribed = true
		views = append(views, view)
	}
	return views, nil
}

func (s *SubscriptionService) subscriptionView(ctx context.Context, author *models.User) (types.SubscriptionView, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("created_at DESC, id DESC").
		Find(&recipes).Error
	if err != nil {
		return types.SubscriptionView{}, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
		return types.SubscriptionView{}, err
	}

	return types.NewSubscriptionView(author, true, recipes, count), nil
}
