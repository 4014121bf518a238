package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/repo"
	"github.com/pkordes/family-trip-planner/testutil"
)

func newItineraryRepo(t *testing.T) repo.ItineraryRepo {
	t.Helper()
	return repo.NewItineraryRepo(testutil.NewTx(t))
}

func itemFixture() domain.ItineraryItem {
	return domain.ItineraryItem{
		Date:     "Dec 23",
		Activity: "Epcot",
		Status:   "Planned",
		Attendees: map[string]domain.Attendance{
			"Marc":    domain.Attending,
			"Melissa": domain.NotAttending,
		},
		TimeOrder: 2,
		Cost:      149.5,
	}
}

func mustCreateItem(t *testing.T, r repo.ItineraryRepo, it domain.ItineraryItem) domain.ItineraryItem {
	t.Helper()
	got, err := r.Create(context.Background(), it)
	require.NoError(t, err)
	return got
}

func TestItineraryRepo_Create(t *testing.T) {
	r := newItineraryRepo(t)
	input := itemFixture()

	got, err := r.Create(context.Background(), input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, input.Date, got.Date)
	assert.Equal(t, input.Activity, got.Activity)
	assert.Equal(t, input.Attendees, got.Attendees)
	assert.Equal(t, 2, got.TimeOrder)
	assert.InDelta(t, 149.5, got.Cost, 0.0001)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestItineraryRepo_Create_NilAttendees(t *testing.T) {
	r := newItineraryRepo(t)
	input := itemFixture()
	input.Attendees = nil

	got, err := r.Create(context.Background(), input)

	require.NoError(t, err)
	assert.NotNil(t, got.Attendees)
	assert.Empty(t, got.Attendees)
}

func TestItineraryRepo_GetByID_NotFound(t *testing.T) {
	r := newItineraryRepo(t)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItineraryRepo_ListAndCount(t *testing.T) {
	r := newItineraryRepo(t)
	ctx := context.Background()
	before, err := r.Count(ctx)
	require.NoError(t, err)

	a := mustCreateItem(t, r, itemFixture())
	b := mustCreateItem(t, r, itemFixture())

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+2, n)

	got, err := r.List(ctx)
	require.NoError(t, err)
	var ids []uuid.UUID
	for _, it := range got {
		ids = append(ids, it.ID)
	}
	assert.Contains(t, ids, a.ID)
	assert.Contains(t, ids, b.ID)
}

func TestItineraryRepo_UpdateFields(t *testing.T) {
	r := newItineraryRepo(t)
	created := mustCreateItem(t, r, itemFixture())

	got, err := r.UpdateFields(context.Background(), domain.DocumentUpdate{
		ID: created.ID,
		Fields: []domain.FieldUpdate{
			domain.SetField{Field: domain.FieldDate, Value: "TBC"},
			domain.SetField{Field: domain.FieldTimeOrder, Value: 0},
			domain.SetAttendance{MemberID: "Melissa", Attendance: domain.Attending},
			domain.SetAttendance{MemberID: "Marc", Attendance: domain.NotAttending},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "TBC", got.Date)
	assert.Equal(t, 0, got.TimeOrder)
	assert.Equal(t, "Epcot", got.Activity, "untouched fields keep their value")
	assert.Equal(t, domain.Attending, got.Attendees["Melissa"])
	assert.Equal(t, domain.NotAttending, got.Attendees["Marc"])
	assert.False(t, got.UpdatedAt.Before(created.UpdatedAt))
}

func TestItineraryRepo_UpdateFields_MemberIDIsData(t *testing.T) {
	r := newItineraryRepo(t)
	created := mustCreateItem(t, r, itemFixture())
	odd := `x"}'); DROP TABLE itinerary_items; --`

	got, err := r.UpdateFields(context.Background(), domain.DocumentUpdate{
		ID:     created.ID,
		Fields: []domain.FieldUpdate{domain.SetAttendance{MemberID: odd, Attendance: domain.Attending}},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.Attending, got.Attendees[odd])
}

func TestItineraryRepo_UpdateFields_NotFound(t *testing.T) {
	r := newItineraryRepo(t)

	_, err := r.UpdateFields(context.Background(), domain.DocumentUpdate{
		ID:     uuid.New(),
		Fields: []domain.FieldUpdate{domain.SetField{Field: domain.FieldStatus, Value: "Booked"}},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItineraryRepo_UpdateFields_Invalid(t *testing.T) {
	r := newItineraryRepo(t)
	created := mustCreateItem(t, r, itemFixture())

	_, err := r.UpdateFields(context.Background(), domain.DocumentUpdate{
		ID:     created.ID,
		Fields: []domain.FieldUpdate{domain.SetField{Field: "id", Value: "x"}},
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestItineraryRepo_ApplyBatch(t *testing.T) {
	r := newItineraryRepo(t)
	ctx := context.Background()
	a := mustCreateItem(t, r, itemFixture())
	b := mustCreateItem(t, r, itemFixture())

	err := r.ApplyBatch(ctx, []domain.DocumentUpdate{
		{ID: a.ID, Fields: []domain.FieldUpdate{
			domain.SetField{Field: domain.FieldDate, Value: "Dec 24"},
			domain.SetField{Field: domain.FieldTimeOrder, Value: 1},
		}},
		{ID: b.ID, Fields: []domain.FieldUpdate{domain.SetField{Field: domain.FieldTimeOrder, Value: 3}}},
	})
	require.NoError(t, err)

	gotA, err := r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dec 24", gotA.Date)
	assert.Equal(t, 1, gotA.TimeOrder)

	gotB, err := r.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, gotB.TimeOrder)
}

func TestItineraryRepo_ApplyBatch_AllOrNothing(t *testing.T) {
	r := newItineraryRepo(t)
	ctx := context.Background()
	a := mustCreateItem(t, r, itemFixture())

	err := r.ApplyBatch(ctx, []domain.DocumentUpdate{
		{ID: a.ID, Fields: []domain.FieldUpdate{domain.SetField{Field: domain.FieldTimeOrder, Value: 7}}},
		{ID: uuid.New(), Fields: []domain.FieldUpdate{domain.SetField{Field: domain.FieldTimeOrder, Value: 1}}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TimeOrder, "first update must be rolled back")
}

func TestItineraryRepo_ApplyBatch_Empty(t *testing.T) {
	r := newItineraryRepo(t)

	assert.NoError(t, r.ApplyBatch(context.Background(), nil))
}
