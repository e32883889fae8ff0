package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
)

// CreateReviewRequest is the payload for posting a review.
type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Title     *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Content   *string   `json:"content,omitempty" validate:"omitempty,max=5000"`
}

// ReviewDTO is the public projection of a review.
type ReviewDTO struct {
	ID                 uuid.UUID `json:"id"`
	ProductID          uuid.UUID `json:"product_id"`
	UserID             uuid.UUID `json:"user_id"`
	Rating             int       `json:"rating"`
	Title              *string   `json:"title,omitempty"`
	Content            *string   `json:"content,omitempty"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	HelpfulCount       int       `json:"helpful_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// ReviewPage is a cursor-paginated slice of a product's reviews.
type ReviewPage struct {
	Items      []ReviewDTO `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func fromModel(review models.Review) ReviewDTO {
	return ReviewDTO{
		ID:                 review.ID,
		ProductID:          review.ProductID,
		UserID:             review.UserID,
		Rating:             review.Rating,
		Title:              review.Title,
		Content:            review.Content,
		IsVerifiedPurchase: review.IsVerifiedPurchase,
		HelpfulCount:       review.HelpfulCount,
		CreatedAt:          review.CreatedAt,
	}
}
