package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type ratingStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, rating *models.Rating) error
	Aggregate(ctx context.Context, rateeID string) (float64, int, error)
	ListForRatee(ctx context.Context, rateeID string) ([]models.RatingView, error)
	ListByRater(ctx context.Context, raterID string) ([]models.RatingView, error)
	ListAll(ctx context.Context) ([]models.RatingView, error)
}

// RatingService records directional ratings and aggregates them per ratee.
type RatingService struct {
	ratings    ratingStore
	recipients *RecipientResolver
	notifier   Notifier
	tx         txProvider
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewRatingService constructs the service.
func NewRatingService(ratings ratingStore, recipients *RecipientResolver, notifier Notifier, tx txProvider, metrics *MetricsService, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{ratings: ratings, recipients: recipients, notifier: notifier, tx: tx, metrics: metrics, logger: logger}
}

// Submit stores a rating. The score is kept as given; an empty type means student_to_lecturer.
func (s *RatingService) Submit(ctx context.Context, raterID string, req dto.SubmitRatingRequest) (*models.Rating, error) {
	rateeID := strings.TrimSpace(req.RateeID)
	if rateeID == "" || req.Score == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ratee and score are required")
	}
	ratingType := req.RatingType
	if ratingType == "" {
		ratingType = models.RatingStudentToLecturer
	}
	if !ratingType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid rating type")
	}

	rating := &models.Rating{
		RaterID:    raterID,
		RateeID:    rateeID,
		RatingType: ratingType,
		Score:      req.Score,
		Comments:   strings.TrimSpace(req.Comments),
	}

	var recipient string
	err := inTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.ratings.Create(ctx, tx, rating); err != nil {
			return appErrors.Internal(err, "failed to submit rating")
		}
		notification, err := s.sideChannel(ctx, tx, rating)
		if err != nil || notification == nil {
			return err
		}
		recipient = notification.RecipientID
		return s.notifier.Notify(ctx, tx, notification)
	})
	if err != nil {
		return nil, err
	}

	if recipient != "" {
		s.notifier.Flush(ctx, recipient)
	}
	s.metrics.RatingSubmitted(ratingType)
	s.logger.Info("rating stored",
		zap.String("rating_id", rating.ID),
		zap.String("type", string(ratingType)),
		zap.Bool("notified", recipient != ""))
	return rating, nil
}

// sideChannel builds the notification a rating triggers for a third party, if any.
func (s *RatingService) sideChannel(ctx context.Context, exec sqlx.ExtContext, rating *models.Rating) (*models.Notification, error) {
	var (
		recipient *string
		title     string
		message   string
	)
	switch rating.RatingType {
	case models.RatingStudentToLecturer:
		student, err := s.recipients.User(ctx, exec, rating.RaterID)
		if err != nil {
			return nil, err
		}
		if student.PrimaryStreamID == nil {
			return nil, nil
		}
		if recipient, err = s.recipients.PRLForStream(ctx, exec, *student.PrimaryStreamID); err != nil || recipient == nil {
			return nil, err
		}
		lecturer, err := s.recipients.User(ctx, exec, rating.RateeID)
		if err != nil {
			return nil, err
		}
		number := ""
		if student.StudentNumber != nil {
			number = *student.StudentNumber
		}
		title = "New Lecturer Rating"
		message = fmt.Sprintf("%s (%s) rated %s - Score: %d/5", student.FullName(), number, lecturer.FullName(), rating.Score)
	case models.RatingLecturerToPRL:
		var err error
		if recipient, err = s.recipients.FirstPL(ctx, exec); err != nil || recipient == nil {
			return nil, err
		}
		lecturer, err := s.recipients.User(ctx, exec, rating.RaterID)
		if err != nil {
			return nil, err
		}
		prl, err := s.recipients.User(ctx, exec, rating.RateeID)
		if err != nil {
			return nil, err
		}
		title = "New PRL Rating"
		message = fmt.Sprintf("%s rated PRL %s - Score: %d/5", lecturer.FullName(), prl.FullName(), rating.Score)
	default:
		return nil, nil
	}

	return &models.Notification{
		RecipientID: *recipient,
		SenderID:    &rating.RaterID,
		Type:        models.NotificationRating,
		Title:       title,
		Message:     message,
		RelatedID:   &rating.ID,
	}, nil
}

// Summary returns the mean score, count and list of ratings a user received.
func (s *RatingService) Summary(ctx context.Context, rateeID string) (*models.RatingSummary, error) {
	avg, count, err := s.ratings.Aggregate(ctx, rateeID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to aggregate ratings")
	}
	ratings, err := ratingList(s.ratings.ListForRatee(ctx, rateeID))
	if err != nil {
		return nil, err
	}
	return &models.RatingSummary{AvgRating: avg, TotalRatings: count, Ratings: ratings}, nil
}

// ListGiven returns the ratings a user has given.
func (s *RatingService) ListGiven(ctx context.Context, raterID string) ([]models.RatingView, error) {
	return ratingList(s.ratings.ListByRater(ctx, raterID))
}

// ListAll returns every rating.
func (s *RatingService) ListAll(ctx context.Context) ([]models.RatingView, error) {
	return ratingList(s.ratings.ListAll(ctx))
}

func ratingList(ratings []models.RatingView, err error) ([]models.RatingView, error) {
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load ratings")
	}
	if ratings == nil {
		ratings = []models.RatingView{}
	}
	return ratings, nil
}
