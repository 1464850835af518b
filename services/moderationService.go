package services

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/apperror"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/metrics"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
)

type ModerationService struct {
	dishes  repositories.DishRepository
	pending repositories.PendingDishRepository
	tx      repositories.Transactor
	logger  zerolog.Logger
}

func NewModerationService(store *repositories.Store, logger zerolog.Logger) *ModerationService {
	return &ModerationService{
		dishes:  store.Dishes,
		pending: store.Pending,
		tx:      store.Tx,
		logger:  logger.With().Str("component", "moderation_service").Logger(),
	}
}

// ListPending returns every submission still waiting for a decision. An
// empty queue is a valid, empty result.
func (s *ModerationService) ListPending(ctx context.Context) ([]models.PendingDish, error) {
	list, err := s.pending.FindByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, storeError(err, "Submission")
	}
	if list == nil {
		list = []models.PendingDish{}
	}
	return list, nil
}

// Approve publishes a pending submission and removes it from the queue.
//
// The dish is written with an upsert keyed on the submission id, so running
// Approve again after a partial failure converges on a single dish.
func (s *ModerationService) Approve(ctx context.Context, submissionID primitive.ObjectID) (*models.Dish, error) {
	var published *models.Dish

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		submission, err := s.pending.FindByID(ctx, submissionID)
		if err != nil {
			return storeError(err, "Submission")
		}

		dish, err := s.dishes.UpsertBySource(ctx, submission.ToDish())
		if err != nil {
			return storeError(err, "Dish")
		}

		if err := s.pending.SetStatus(ctx, submissionID, models.StatusApproved); err != nil {
			return storeError(err, "Submission")
		}
		if _, err := s.pending.Delete(ctx, submissionID); err != nil {
			return storeError(err, "Submission")
		}

		published = dish
		return nil
	})
	if err != nil {
		if !apperror.Is(err, apperror.KindNotFound) {
			s.logger.Error().Err(err).Str("submission_id", submissionID.Hex()).Msg("approve failed")
		}
		return nil, storeError(err, "Submission")
	}

	metrics.RecordModeration("approved")
	s.logger.Info().Str("submission_id", submissionID.Hex()).Str("dish_id", published.ID.Hex()).Msg("submission approved")
	return published, nil
}

// Reject discards a pending submission. It fails with NotFound when there
// was nothing to delete.
func (s *ModerationService) Reject(ctx context.Context, submissionID primitive.ObjectID) error {
	deleted, err := s.pending.Delete(ctx, submissionID)
	if err != nil {
		return storeError(err, "Submission")
	}
	if !deleted {
		return apperror.NotFound("Submission not found")
	}

	metrics.RecordModeration("rejected")
	s.logger.Info().Str("submission_id", submissionID.Hex()).Msg("submission rejected")
	return nil
}
