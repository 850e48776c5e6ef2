package service

import (
	"context"
	"testing"
	"time"

	"slotswapper/core/errors"
	"slotswapper/modules/event/dto"
	"slotswapper/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	events map[uuid.UUID]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*entity.Event)}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	created := *event
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.events[created.ID] = &created
	cp := created
	return &cp, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	if ev, ok := f.events[id]; ok {
		cp := *ev
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeEventRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Event, error) {
	var out []entity.Event
	for _, ev := range f.events {
		if ev.OwnerID == ownerID {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *entity.Event, fromStatus entity.EventStatus) (bool, error) {
	cur, ok := f.events[event.ID]
	if !ok || cur.Status != fromStatus {
		return false, nil
	}
	cp := *event
	f.events[event.ID] = &cp
	return true, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	cur, ok := f.events[id]
	if !ok || cur.Status == entity.StatusSwapPending {
		return false, nil
	}
	delete(f.events, id)
	return true, nil
}

func (f *fakeEventRepo) ListSwappableExcluding(ctx context.Context, ownerID uuid.UUID) ([]entity.MarketplaceSlot, error) {
	var out []entity.MarketplaceSlot
	for _, ev := range f.events {
		if ev.Status == entity.StatusSwappable && ev.OwnerID != ownerID {
			out = append(out, entity.MarketplaceSlot{Event: *ev})
		}
	}
	return out, nil
}

func (f *fakeEventRepo) seed(ownerID uuid.UUID, status entity.EventStatus) *entity.Event {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ev := &entity.Event{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     "standup",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
	}
	f.events[ev.ID] = ev
	return ev
}

// racingEventRepo flips the stored row to SWAP_PENDING after each read,
// reproducing a negotiation committing between the service's read and its
// write.
type racingEventRepo struct {
	*fakeEventRepo
}

func (f *racingEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	ev, err := f.fakeEventRepo.GetByID(ctx, id)
	if ev != nil {
		f.events[id].Status = entity.StatusSwapPending
	}
	return ev, err
}

func strPtr(s string) *string { return &s }

func TestCreateEventDefaultsToBusy(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)
	owner := uuid.New()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	created, appErr := svc.Create(context.Background(), owner, &dto.CreateEventRequest{
		Title:     "standup",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.Nil(t, appErr)
	assert.Equal(t, entity.StatusBusy, created.Status)
	assert.Equal(t, owner, created.OwnerID)
}

func TestCreateEventValidation(t *testing.T) {
	svc := NewEventService(newFakeEventRepo())
	owner := uuid.New()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  dto.CreateEventRequest
	}{
		{"missing title", dto.CreateEventRequest{StartTime: start, EndTime: start.Add(time.Hour)}},
		{"missing times", dto.CreateEventRequest{Title: "x"}},
		{"end before start", dto.CreateEventRequest{Title: "x", StartTime: start, EndTime: start.Add(-time.Hour)}},
		{"end equals start", dto.CreateEventRequest{Title: "x", StartTime: start, EndTime: start}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, appErr := svc.Create(context.Background(), owner, &tt.req)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
		})
	}
}

func TestUpdateEventVisibilityToggle(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)
	owner := uuid.New()
	ev := repo.seed(owner, entity.StatusBusy)

	updated, appErr := svc.Update(context.Background(), owner, ev.ID, &dto.UpdateEventRequest{
		Status: strPtr(string(entity.StatusSwappable)),
	})
	require.Nil(t, appErr)
	assert.Equal(t, entity.StatusSwappable, updated.Status)

	updated, appErr = svc.Update(context.Background(), owner, ev.ID, &dto.UpdateEventRequest{
		Status: strPtr(string(entity.StatusBusy)),
	})
	require.Nil(t, appErr)
	assert.Equal(t, entity.StatusBusy, updated.Status)
}

func TestUpdateEventCannotSetSwapPending(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)
	owner := uuid.New()
	ev := repo.seed(owner, entity.StatusSwappable)

	_, appErr := svc.Update(context.Background(), owner, ev.ID, &dto.UpdateEventRequest{
		Status: strPtr(string(entity.StatusSwapPending)),
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidTransition, appErr.Code)
}

func TestUpdateEventLockedBySwap(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)
	owner := uuid.New()
	ev := repo.seed(owner, entity.StatusSwapPending)

	_, appErr := svc.Update(context.Background(), owner, ev.ID, &dto.UpdateEventRequest{
		Title: strPtr("renamed"),
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidTransition, appErr.Code)
	assert.Equal(t, "standup", repo.events[ev.ID].Title)
}

func TestUpdateEventLostRaceWithEngine(t *testing.T) {
	inner := newFakeEventRepo()
	repo := &racingEventRepo{fakeEventRepo: inner}
	svc := NewEventService(repo)
	owner := uuid.New()
	ev := inner.seed(owner, entity.StatusBusy)

	_, appErr := svc.Update(context.Background(), owner, ev.ID, &dto.UpdateEventRequest{
		Title: strPtr("renamed"),
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidTransition, appErr.Code)

	// The engine's lock survives the losing write.
	assert.Equal(t, entity.StatusSwapPending, inner.events[ev.ID].Status)
	assert.Equal(t, "standup", inner.events[ev.ID].Title)
}

func TestDeleteEventLostRaceWithEngine(t *testing.T) {
	inner := newFakeEventRepo()
	repo := &racingEventRepo{fakeEventRepo: inner}
	svc := NewEventService(repo)
	owner := uuid.New()
	ev := inner.seed(owner, entity.StatusSwappable)

	appErr := svc.Delete(context.Background(), owner, ev.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
	assert.Contains(t, inner.events, ev.ID)
}

func TestUpdateEventOtherOwnerLooksMissing(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)
	ev := repo.seed(uuid.New(), entity.StatusBusy)

	_, appErr := svc.Update(context.Background(), uuid.New(), ev.ID, &dto.UpdateEventRequest{
		Title: strPtr("renamed"),
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestDeleteEventLockedBySwap(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)
	owner := uuid.New()
	ev := repo.seed(owner, entity.StatusSwapPending)

	appErr := svc.Delete(context.Background(), owner, ev.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
	assert.Contains(t, repo.events, ev.ID)
}

func TestDeleteEvent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)
	owner := uuid.New()
	ev := repo.seed(owner, entity.StatusBusy)

	appErr := svc.Delete(context.Background(), owner, ev.ID)
	require.Nil(t, appErr)
	assert.NotContains(t, repo.events, ev.ID)

	appErr = svc.Delete(context.Background(), owner, ev.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}
