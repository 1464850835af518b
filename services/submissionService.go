package services

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/helper"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/metrics"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
)

// SubmissionResult reports where a proposal went. Exactly one of Dish and
// Pending is set.
type SubmissionResult struct {
	Published bool                `json:"published"`
	Dish      *models.Dish        `json:"dish,omitempty"`
	Pending   *models.PendingDish `json:"pending,omitempty"`
}

func (r *SubmissionResult) Message() string {
	if r.Published {
		return "Dish added successfully"
	}
	return "Dish sent to Admin for review"
}

type SubmissionService struct {
	users   repositories.UserRepository
	dishes  repositories.DishRepository
	pending repositories.PendingDishRepository
	images  helper.ImageStore
	policy  AdminPolicy
	logger  zerolog.Logger
}

func NewSubmissionService(store *repositories.Store, images helper.ImageStore, policy AdminPolicy, logger zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		users:   store.Users,
		dishes:  store.Dishes,
		pending: store.Pending,
		images:  images,
		policy:  policy,
		logger:  logger.With().Str("component", "submission_service").Logger(),
	}
}

// Submit routes a dish proposal. Admin proposals are published at once,
// everything else waits in the moderation queue. image may be nil.
func (s *SubmissionService) Submit(ctx context.Context, submitterID primitive.ObjectID, details models.DishDetails, image *helper.ImageUpload) (*SubmissionResult, error) {
	if err := helper.ValidateStruct(details); err != nil {
		return nil, err
	}

	submitter, err := s.users.FindByID(ctx, submitterID)
	if err != nil {
		return nil, storeError(err, "User")
	}

	details.Img = ""
	if image != nil && s.images != nil {
		ref, err := s.images.Save(ctx, *image)
		if err != nil {
			return nil, err
		}
		details.Img = ref
	}

	if s.policy.IsAdmin(submitter) {
		dish := models.NewDish(details)
		if err := s.dishes.Create(ctx, dish); err != nil {
			s.discardImage(ctx, details.Img)
			return nil, storeError(err, "Dish")
		}
		metrics.RecordSubmission(true)
		s.logger.Info().Str("dish_id", dish.ID.Hex()).Str("user_id", submitterID.Hex()).Msg("dish published by admin")
		return &SubmissionResult{Published: true, Dish: dish}, nil
	}

	pending := models.NewPendingDish(details, submitter.ID)
	if err := s.pending.Create(ctx, pending); err != nil {
		s.discardImage(ctx, details.Img)
		return nil, storeError(err, "Submission")
	}
	metrics.RecordSubmission(false)
	s.logger.Info().Str("submission_id", pending.ID.Hex()).Str("user_id", submitterID.Hex()).Msg("dish queued for review")
	return &SubmissionResult{Published: false, Pending: pending}, nil
}

// discardImage removes an image whose dish was never written.
func (s *SubmissionService) discardImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Remove(context.WithoutCancel(ctx), ref); err != nil {
		s.logger.Warn().Err(err).Str("image", ref).Msg("orphaned image left in store")
	}
}

// ListBySubmitter returns the proposals of one user still in the queue.
func (s *SubmissionService) ListBySubmitter(ctx context.Context, userID primitive.ObjectID) ([]models.PendingDish, error) {
	list, err := s.pending.FindBySubmitter(ctx, userID)
	if err != nil {
		return nil, storeError(err, "Submission")
	}
	if list == nil {
		list = []models.PendingDish{}
	}
	return list, nil
}
