package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/YelzhanWeb/storefront/internal/app/querycache"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

func reviewParams(kind string, q interfaces.ReviewQuery) string {
	return fmt.Sprintf("%s&page=%d&limit=%d&rating=%d", kind, q.Page, q.Limit, q.Rating)
}

func (s *Service) CreateReview(ctx context.Context, cmd interfaces.CreateReviewCommand) (domain.Review, error) {
	cmd.TransactionID = strings.TrimSpace(cmd.TransactionID)
	cmd.Comment = strings.TrimSpace(cmd.Comment)

	switch {
	case cmd.TransactionID == "":
		return domain.Review{}, fmt.Errorf("%w: transactionId is required", domain.ErrInvalidReview)
	case cmd.RestaurantID <= 0:
		return domain.Review{}, fmt.Errorf("%w: restaurantId is required", domain.ErrInvalidReview)
	case !domain.ValidStar(cmd.Star):
		return domain.Review{}, fmt.Errorf("%w: star must be between 1 and 5", domain.ErrInvalidReview)
	}

	review, err := s.reviews.CreateReview(ctx, cmd)
	if err != nil {
		return domain.Review{}, fmt.Errorf("failed to create review: %w", err)
	}
	s.invalidateReviews()
	return review, nil
}

func (s *Service) RestaurantReviews(ctx context.Context, restaurantID int, q interfaces.ReviewQuery) (interfaces.ReviewPage, error) {
	key := querycache.Key{Scope: querycache.ScopeReviews, User: publicUser, Params: reviewParams(fmt.Sprintf("restaurant=%d", restaurantID), q)}
	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) (interfaces.ReviewPage, error) {
		return s.reviews.RestaurantReviews(ctx, restaurantID, q)
	})
}

func (s *Service) MyReviews(ctx context.Context, q interfaces.ReviewQuery) (interfaces.ReviewPage, error) {
	key := querycache.Key{Scope: querycache.ScopeReviews, User: interfaces.SessionFrom(ctx).UserKey, Params: reviewParams("mine", q)}
	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) (interfaces.ReviewPage, error) {
		return s.reviews.MyReviews(ctx, q)
	})
}

func (s *Service) UpdateReview(ctx context.Context, reviewID int, cmd interfaces.UpdateReviewCommand) (domain.Review, error) {
	if cmd.Star != nil && !domain.ValidStar(*cmd.Star) {
		return domain.Review{}, fmt.Errorf("%w: star must be between 1 and 5", domain.ErrInvalidReview)
	}
	if cmd.Star == nil && cmd.Comment == nil {
		return domain.Review{}, fmt.Errorf("%w: nothing to update", domain.ErrInvalidReview)
	}

	review, err := s.reviews.UpdateReview(ctx, reviewID, cmd)
	if err != nil {
		return domain.Review{}, fmt.Errorf("failed to update review: %w", err)
	}
	s.invalidateReviews()
	return review, nil
}

func (s *Service) DeleteReview(ctx context.Context, reviewID int) error {
	if err := s.reviews.DeleteReview(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	s.invalidateReviews()
	return nil
}

// invalidateReviews drops review listings and restaurant details, which
// embed reviews and ratings
func (s *Service) invalidateReviews() {
	s.cache.InvalidateScope(querycache.ScopeReviews)
	s.cache.InvalidateScope(querycache.ScopeRestaurant)
}
