package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type memoryRatings struct {
	stored []*models.Rating
}

func (m *memoryRatings) Create(ctx context.Context, exec sqlx.ExtContext, rating *models.Rating) error {
	rating.ID = "rating-" + rating.RaterID
	m.stored = append(m.stored, rating)
	return nil
}

func (m *memoryRatings) Aggregate(ctx context.Context, rateeID string) (float64, int, error) {
	var sum, count int
	for _, r := range m.stored {
		if r.RateeID == rateeID {
			sum += r.Score
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (m *memoryRatings) views(keep func(*models.Rating) bool) []models.RatingView {
	var out []models.RatingView
	for _, r := range m.stored {
		if keep(r) {
			out = append(out, models.RatingView{Rating: *r})
		}
	}
	return out
}

func (m *memoryRatings) ListForRatee(ctx context.Context, rateeID string) ([]models.RatingView, error) {
	return m.views(func(r *models.Rating) bool { return r.RateeID == rateeID }), nil
}

func (m *memoryRatings) ListByRater(ctx context.Context, raterID string) ([]models.RatingView, error) {
	return m.views(func(r *models.Rating) bool { return r.RaterID == raterID }), nil
}

func (m *memoryRatings) ListAll(ctx context.Context) ([]models.RatingView, error) {
	return m.views(func(*models.Rating) bool { return true }), nil
}

func newRatingFixture(t *testing.T) (*RatingService, *memoryRatings, *recordingNotifier, *fakeDirectory, func()) {
	t.Helper()
	tx, mock := newTxProviderMock(t)
	dir := &fakeDirectory{}
	dir.add(lecturer("L1", "Lerato", "Mokoena", "S1"))
	dir.add(prl("P1", "Thabo", "Lebona", "S1"))
	dir.add(student("ST1", "Palesa", "Ntho", "901234", "S1"))
	dir.add(student("ST2", "Karabo", "Tau", "901235", "S2"))
	ratings := &memoryRatings{}
	notifier := &recordingNotifier{}
	svc := NewRatingService(ratings, NewRecipientResolver(dir), notifier, tx, NewMetricsService(), nil)
	expectTx := func() {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
	return svc, ratings, notifier, dir, expectTx
}

func TestRatingRequiresRateeAndScore(t *testing.T) {
	svc, ratings, _, _, _ := newRatingFixture(t)

	_, err := svc.Submit(context.Background(), "ST1", dto.SubmitRatingRequest{RateeID: "L1"})
	requireAppError(t, err, appErrors.ErrValidation, "ratee and score are required")

	_, err = svc.Submit(context.Background(), "ST1", dto.SubmitRatingRequest{Score: 4})
	requireAppError(t, err, appErrors.ErrValidation, "ratee and score are required")

	_, err = svc.Submit(context.Background(), "ST1", dto.SubmitRatingRequest{RateeID: "L1", Score: 4, RatingType: "peer_review"})
	requireAppError(t, err, appErrors.ErrValidation, "invalid rating type")
	assert.Empty(t, ratings.stored)
}

func TestStudentRatingNotifiesStreamPRL(t *testing.T) {
	svc, ratings, notifier, _, expectTx := newRatingFixture(t)
	expectTx()

	rating, err := svc.Submit(context.Background(), "ST1", dto.SubmitRatingRequest{RateeID: "L1", Score: 4, Comments: " clear "})
	require.NoError(t, err)
	assert.Equal(t, models.RatingStudentToLecturer, rating.RatingType)
	assert.Equal(t, "clear", rating.Comments)
	require.Len(t, ratings.stored, 1)

	require.Len(t, notifier.sent, 1)
	n := notifier.sent[0]
	assert.Equal(t, "P1", n.RecipientID)
	assert.Equal(t, models.NotificationRating, n.Type)
	assert.Equal(t, "New Lecturer Rating", n.Title)
	assert.Equal(t, "Palesa Ntho (901234) rated Lerato Mokoena - Score: 4/5", n.Message)
	assert.Equal(t, []string{"P1"}, notifier.flushed)
}

func TestStudentRatingWithoutStreamPRLIsSilent(t *testing.T) {
	svc, ratings, notifier, _, expectTx := newRatingFixture(t)
	expectTx()

	_, err := svc.Submit(context.Background(), "ST2", dto.SubmitRatingRequest{RateeID: "L1", Score: 3})
	require.NoError(t, err)
	assert.Len(t, ratings.stored, 1)
	assert.Empty(t, notifier.sent)
}

func TestLecturerRatingOfPRLNotifiesFirstPL(t *testing.T) {
	svc, _, notifier, dir, expectTx := newRatingFixture(t)
	dir.add(programmeLeader("PL1", "Mpho", "Sello"))
	dir.add(programmeLeader("PL2", "Later", "Leader"))
	expectTx()

	_, err := svc.Submit(context.Background(), "L1", dto.SubmitRatingRequest{RateeID: "P1", Score: 5, RatingType: models.RatingLecturerToPRL})
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "PL1", notifier.sent[0].RecipientID)
	assert.Equal(t, "New PRL Rating", notifier.sent[0].Title)
	assert.Equal(t, "Lerato Mokoena rated PRL Thabo Lebona - Score: 5/5", notifier.sent[0].Message)
}

func TestOtherRatingTypesSendNothing(t *testing.T) {
	svc, ratings, notifier, _, expectTx := newRatingFixture(t)
	for _, rt := range []models.RatingType{models.RatingPLToPRL, models.RatingPRLToLecturer} {
		expectTx()
		_, err := svc.Submit(context.Background(), "P1", dto.SubmitRatingRequest{RateeID: "L1", Score: 2, RatingType: rt})
		require.NoError(t, err)
	}
	assert.Len(t, ratings.stored, 2)
	assert.Empty(t, notifier.sent)
	assert.Empty(t, notifier.flushed)
}

func TestRatingScoreIsNotClamped(t *testing.T) {
	svc, _, _, _, expectTx := newRatingFixture(t)
	expectTx()

	rating, err := svc.Submit(context.Background(), "ST2", dto.SubmitRatingRequest{RateeID: "L1", Score: 9})
	require.NoError(t, err)
	assert.Equal(t, 9, rating.Score)
}

func TestRatingSummary(t *testing.T) {
	svc, _, _, _, expectTx := newRatingFixture(t)

	empty, err := svc.Summary(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.AvgRating)
	assert.Equal(t, 0, empty.TotalRatings)
	assert.NotNil(t, empty.Ratings)

	for _, score := range []int{4, 5} {
		expectTx()
		_, err := svc.Submit(context.Background(), "ST2", dto.SubmitRatingRequest{RateeID: "L1", Score: score})
		require.NoError(t, err)
	}
	summary, err := svc.Summary(context.Background(), "L1")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, summary.AvgRating, 0.0001)
	assert.Equal(t, 2, summary.TotalRatings)
	assert.Len(t, summary.Ratings, 2)

	given, err := svc.ListGiven(context.Background(), "ST2")
	require.NoError(t, err)
	assert.Len(t, given, 2)
}
