package service

import (
	"context"
	"testing"
	"time"

	"slotswapper/core/errors"
	"slotswapper/core/tasks"
	evententity "slotswapper/modules/event/entity"
	"slotswapper/modules/swap/dto"
	"slotswapper/modules/swap/entity"
	"slotswapper/modules/swap/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeState is an in-memory stand-in for the events and swap_requests
// tables.
type fakeState struct {
	events   map[uuid.UUID]*evententity.Event
	requests map[uuid.UUID]*entity.SwapRequest
}

func newFakeState() *fakeState {
	return &fakeState{
		events:   make(map[uuid.UUID]*evententity.Event),
		requests: make(map[uuid.UUID]*entity.SwapRequest),
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for id, ev := range s.events {
		cp := *ev
		c.events[id] = &cp
	}
	for id, req := range s.requests {
		cp := *req
		c.requests[id] = &cp
	}
	return c
}

type fakeStore struct {
	state *fakeState
}

func (f *fakeStore) InTx(ctx context.Context, fn func(tx repository.TxStore) error) error {
	// Emulate transactional semantics: mutate a copy, swap it in on
	// success, drop it on error.
	work := f.state.clone()
	if err := fn(&fakeTxStore{state: work}); err != nil {
		return err
	}
	f.state = work
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	if req, ok := f.state.requests[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) ListIncoming(ctx context.Context, responderID uuid.UUID) ([]entity.SwapRequestDetail, error) {
	var out []entity.SwapRequestDetail
	for _, req := range f.state.requests {
		if req.ResponderID == responderID {
			out = append(out, entity.SwapRequestDetail{SwapRequest: *req})
		}
	}
	return out, nil
}

func (f *fakeStore) ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]entity.SwapRequestDetail, error) {
	var out []entity.SwapRequestDetail
	for _, req := range f.state.requests {
		if req.RequesterID == requesterID {
			out = append(out, entity.SwapRequestDetail{SwapRequest: *req})
		}
	}
	return out, nil
}

type fakeTxStore struct {
	state *fakeState
}

func (f *fakeTxStore) GetEventForUpdate(ctx context.Context, id uuid.UUID) (*evententity.Event, error) {
	if ev, ok := f.state.events[id]; ok {
		cp := *ev
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeTxStore) GetRequestForUpdate(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	if req, ok := f.state.requests[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeTxStore) CountPendingByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (int, error) {
	count := 0
	for _, req := range f.state.requests {
		if req.Status != entity.SwapPending {
			continue
		}
		for _, id := range eventIDs {
			if req.RequesterSlotID == id || req.ResponderSlotID == id {
				count++
				break
			}
		}
	}
	return count, nil
}

func (f *fakeTxStore) ListOtherPendingByEventIDs(ctx context.Context, excludeRequestID uuid.UUID, eventIDs []uuid.UUID) ([]entity.SwapRequest, error) {
	var out []entity.SwapRequest
	for _, req := range f.state.requests {
		if req.ID == excludeRequestID || req.Status != entity.SwapPending {
			continue
		}
		for _, id := range eventIDs {
			if req.RequesterSlotID == id || req.ResponderSlotID == id {
				out = append(out, *req)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeTxStore) casEvent(id uuid.UUID, from, to evententity.EventStatus) bool {
	ev, ok := f.state.events[id]
	if !ok || ev.Status != from {
		return false
	}
	ev.Status = to
	return true
}

func (f *fakeTxStore) MarkEventSwapPending(ctx context.Context, eventID uuid.UUID) (bool, error) {
	return f.casEvent(eventID, evententity.StatusSwappable, evententity.StatusSwapPending), nil
}

func (f *fakeTxStore) ReleaseEvent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	return f.casEvent(eventID, evententity.StatusSwapPending, evententity.StatusSwappable), nil
}

func (f *fakeTxStore) CompleteEvent(ctx context.Context, eventID uuid.UUID, newOwnerID uuid.UUID) (bool, error) {
	ev, ok := f.state.events[eventID]
	if !ok || ev.Status != evententity.StatusSwapPending {
		return false, nil
	}
	ev.OwnerID = newOwnerID
	ev.Status = evententity.StatusBusy
	return true, nil
}

func (f *fakeTxStore) InsertRequest(ctx context.Context, req *entity.SwapRequest) (*entity.SwapRequest, error) {
	created := *req
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.state.requests[created.ID] = &created
	cp := created
	return &cp, nil
}

func (f *fakeTxStore) ResolveRequest(ctx context.Context, id uuid.UUID, from, to entity.SwapStatus) (bool, error) {
	req, ok := f.state.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	return true, nil
}

type fakeEnqueuer struct {
	payloads []tasks.SwapNotificationPayload
}

func (f *fakeEnqueuer) EnqueueSwapNotification(ctx context.Context, p tasks.SwapNotificationPayload) error {
	f.payloads = append(f.payloads, p)
	return nil
}

func (f *fakeEnqueuer) byType(t string) []tasks.SwapNotificationPayload {
	var out []tasks.SwapNotificationPayload
	for _, p := range f.payloads {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

func seedEvent(state *fakeState, ownerID uuid.UUID, title string, status evententity.EventStatus) *evententity.Event {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ev := &evententity.Event{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
	}
	state.events[ev.ID] = ev
	return ev
}

func seedRequest(state *fakeState, requesterID, responderID uuid.UUID, requesterSlot, responderSlot *evententity.Event) *entity.SwapRequest {
	req := &entity.SwapRequest{
		ID:              uuid.New(),
		RequesterID:     requesterID,
		ResponderID:     responderID,
		RequesterSlotID: requesterSlot.ID,
		ResponderSlotID: responderSlot.ID,
		Status:          entity.SwapPending,
	}
	state.requests[req.ID] = req
	return req
}

func newTestService(state *fakeState) (*SwapService, *fakeStore, *fakeEnqueuer) {
	store := &fakeStore{state: state}
	enq := &fakeEnqueuer{}
	return NewSwapService(store, enq), store, enq
}

func TestRequestSwapHappyPath(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	bob := uuid.New()
	mine := seedEvent(state, alice, "standup", evententity.StatusSwappable)
	theirs := seedEvent(state, bob, "review", evententity.StatusSwappable)

	svc, store, enq := newTestService(state)

	created, appErr := svc.RequestSwap(context.Background(), alice, &dto.CreateSwapRequest{
		RequesterSlotID: mine.ID,
		ResponderSlotID: theirs.ID,
	})
	require.Nil(t, appErr)
	require.NotNil(t, created)

	assert.Equal(t, entity.SwapPending, created.Status)
	assert.Equal(t, alice, created.RequesterID)
	assert.Equal(t, bob, created.ResponderID)

	assert.Equal(t, evententity.StatusSwapPending, store.state.events[mine.ID].Status)
	assert.Equal(t, evententity.StatusSwapPending, store.state.events[theirs.ID].Status)

	require.Len(t, enq.payloads, 1)
	assert.Equal(t, bob, enq.payloads[0].UserID)
	assert.Equal(t, "swap_request_received", enq.payloads[0].Type)
}

func TestRequestSwapRequesterDoesNotOwnSlot(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	bob := uuid.New()
	notMine := seedEvent(state, bob, "standup", evententity.StatusSwappable)
	theirs := seedEvent(state, bob, "review", evententity.StatusSwappable)

	svc, store, enq := newTestService(state)

	_, appErr := svc.RequestSwap(context.Background(), alice, &dto.CreateSwapRequest{
		RequesterSlotID: notMine.ID,
		ResponderSlotID: theirs.ID,
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	// Nothing changed, nothing enqueued.
	assert.Equal(t, evententity.StatusSwappable, store.state.events[notMine.ID].Status)
	assert.Empty(t, store.state.requests)
	assert.Empty(t, enq.payloads)
}

func TestRequestSwapOwnSlot(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	a := seedEvent(state, alice, "one", evententity.StatusSwappable)
	b := seedEvent(state, alice, "two", evententity.StatusSwappable)

	svc, _, _ := newTestService(state)

	_, appErr := svc.RequestSwap(context.Background(), alice, &dto.CreateSwapRequest{
		RequesterSlotID: a.ID,
		ResponderSlotID: b.ID,
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrSlotUnavailable, appErr.Code)
}

func TestRequestSwapSameSlot(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	a := seedEvent(state, alice, "one", evententity.StatusSwappable)

	svc, _, _ := newTestService(state)

	_, appErr := svc.RequestSwap(context.Background(), alice, &dto.CreateSwapRequest{
		RequesterSlotID: a.ID,
		ResponderSlotID: a.ID,
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestRequestSwapSlotNotSwappable(t *testing.T) {
	for _, status := range []evententity.EventStatus{evententity.StatusBusy, evententity.StatusSwapPending} {
		t.Run(string(status), func(t *testing.T) {
			state := newFakeState()
			alice := uuid.New()
			bob := uuid.New()
			mine := seedEvent(state, alice, "standup", evententity.StatusSwappable)
			theirs := seedEvent(state, bob, "review", status)

			svc, store, enq := newTestService(state)

			_, appErr := svc.RequestSwap(context.Background(), alice, &dto.CreateSwapRequest{
				RequesterSlotID: mine.ID,
				ResponderSlotID: theirs.ID,
			})
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrSlotUnavailable, appErr.Code)

			// The requester slot must not be left half-locked.
			assert.Equal(t, evententity.StatusSwappable, store.state.events[mine.ID].Status)
			assert.Empty(t, enq.payloads)
		})
	}
}

func TestRequestSwapSlotAlreadyPending(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()
	mine := seedEvent(state, alice, "standup", evententity.StatusSwappable)
	theirs := seedEvent(state, bob, "review", evententity.StatusSwappable)
	carols := seedEvent(state, carol, "retro", evententity.StatusSwappable)

	// A pending request already references bob's slot even though its status
	// says SWAPPABLE; the count check must still refuse.
	seedRequest(state, carol, bob, carols, theirs)

	svc, _, _ := newTestService(state)

	_, appErr := svc.RequestSwap(context.Background(), alice, &dto.CreateSwapRequest{
		RequesterSlotID: mine.ID,
		ResponderSlotID: theirs.ID,
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrSlotUnavailable, appErr.Code)
}

func TestRespondReject(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	bob := uuid.New()
	mine := seedEvent(state, alice, "standup", evententity.StatusSwapPending)
	theirs := seedEvent(state, bob, "review", evententity.StatusSwapPending)
	req := seedRequest(state, alice, bob, mine, theirs)

	svc, store, enq := newTestService(state)

	resolved, appErr := svc.Respond(context.Background(), bob, req.ID, false)
	require.Nil(t, appErr)
	assert.Equal(t, entity.SwapRejected, resolved.Status)

	// Both slots return to the marketplace; ownership untouched.
	assert.Equal(t, evententity.StatusSwappable, store.state.events[mine.ID].Status)
	assert.Equal(t, evententity.StatusSwappable, store.state.events[theirs.ID].Status)
	assert.Equal(t, alice, store.state.events[mine.ID].OwnerID)
	assert.Equal(t, bob, store.state.events[theirs.ID].OwnerID)

	require.Len(t, enq.payloads, 1)
	assert.Equal(t, alice, enq.payloads[0].UserID)
	assert.Equal(t, "swap_request_rejected", enq.payloads[0].Type)
}

func TestRespondAcceptSwapsOwnership(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	bob := uuid.New()
	mine := seedEvent(state, alice, "standup", evententity.StatusSwapPending)
	theirs := seedEvent(state, bob, "review", evententity.StatusSwapPending)
	req := seedRequest(state, alice, bob, mine, theirs)

	svc, store, enq := newTestService(state)

	resolved, appErr := svc.Respond(context.Background(), bob, req.ID, true)
	require.Nil(t, appErr)
	assert.Equal(t, entity.SwapAccepted, resolved.Status)

	gotMine := store.state.events[mine.ID]
	gotTheirs := store.state.events[theirs.ID]

	// Owners exchanged, both settled as BUSY.
	assert.Equal(t, bob, gotMine.OwnerID)
	assert.Equal(t, alice, gotTheirs.OwnerID)
	assert.Equal(t, evententity.StatusBusy, gotMine.Status)
	assert.Equal(t, evententity.StatusBusy, gotTheirs.Status)

	// Titles and times travel with the event.
	assert.Equal(t, "standup", gotMine.Title)
	assert.Equal(t, mine.StartTime, gotMine.StartTime)
	assert.Equal(t, mine.EndTime, gotMine.EndTime)
	assert.Equal(t, "review", gotTheirs.Title)

	require.Len(t, enq.payloads, 1)
	assert.Equal(t, alice, enq.payloads[0].UserID)
	assert.Equal(t, "swap_request_accepted", enq.payloads[0].Type)
}

func TestRespondAcceptCascadesOtherPendingRequests(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	mine := seedEvent(state, alice, "standup", evententity.StatusSwapPending)
	theirs := seedEvent(state, bob, "review", evententity.StatusSwapPending)
	carols := seedEvent(state, carol, "retro", evententity.StatusSwapPending)

	accepted := seedRequest(state, alice, bob, mine, theirs)
	// Overlapping pending request from carol targeting bob's slot.
	overlapping := seedRequest(state, carol, bob, carols, theirs)

	svc, store, enq := newTestService(state)

	_, appErr := svc.Respond(context.Background(), bob, accepted.ID, true)
	require.Nil(t, appErr)

	// The overlapping request was auto-rejected and carol's far-side slot
	// released back to the marketplace.
	assert.Equal(t, entity.SwapRejected, store.state.requests[overlapping.ID].Status)
	assert.Equal(t, evententity.StatusSwappable, store.state.events[carols.ID].Status)
	assert.Equal(t, carol, store.state.events[carols.ID].OwnerID)

	// The swapped pair stays BUSY; the cascade must not release it.
	assert.Equal(t, evententity.StatusBusy, store.state.events[mine.ID].Status)
	assert.Equal(t, evententity.StatusBusy, store.state.events[theirs.ID].Status)

	cancelled := enq.byType("swap_request_cancelled")
	require.Len(t, cancelled, 1)
	assert.Equal(t, carol, cancelled[0].UserID)

	// No SWAP_PENDING event may survive behind a terminal request.
	for _, ev := range store.state.events {
		assert.NotEqual(t, evententity.StatusSwapPending, ev.Status)
	}
}

// staleReadStore serves a stale pending copy from the pre-transaction read,
// as if another responder resolved the request in between; the re-check
// under locks must catch it.
type staleReadStore struct {
	*fakeStore
	stale entity.SwapRequest
}

func (s *staleReadStore) GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	if id == s.stale.ID {
		cp := s.stale
		return &cp, nil
	}
	return s.fakeStore.GetByID(ctx, id)
}

func TestRespondResolvedBetweenReadAndLock(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	bob := uuid.New()
	mine := seedEvent(state, alice, "standup", evententity.StatusSwappable)
	theirs := seedEvent(state, bob, "review", evententity.StatusSwappable)
	req := seedRequest(state, alice, bob, mine, theirs)
	req.Status = entity.SwapRejected

	stale := *req
	stale.Status = entity.SwapPending

	store := &staleReadStore{fakeStore: &fakeStore{state: state}, stale: stale}
	enq := &fakeEnqueuer{}
	svc := NewSwapService(store, enq)

	for _, accept := range []bool{true, false} {
		_, appErr := svc.Respond(context.Background(), bob, req.ID, accept)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrAlreadyResolved, appErr.Code)
	}

	// Slots and request untouched, nothing enqueued.
	assert.Equal(t, evententity.StatusSwappable, store.state.events[mine.ID].Status)
	assert.Equal(t, evententity.StatusSwappable, store.state.events[theirs.ID].Status)
	assert.Equal(t, entity.SwapRejected, store.state.requests[req.ID].Status)
	assert.Empty(t, enq.payloads)
}

func TestRespondNotFound(t *testing.T) {
	svc, _, _ := newTestService(newFakeState())

	_, appErr := svc.Respond(context.Background(), uuid.New(), uuid.New(), true)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestRespondWrongResponder(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	bob := uuid.New()
	mine := seedEvent(state, alice, "standup", evententity.StatusSwapPending)
	theirs := seedEvent(state, bob, "review", evententity.StatusSwapPending)
	req := seedRequest(state, alice, bob, mine, theirs)

	svc, store, _ := newTestService(state)

	// The requester cannot resolve their own request, and neither can a
	// third party.
	for _, caller := range []uuid.UUID{alice, uuid.New()} {
		_, appErr := svc.Respond(context.Background(), caller, req.ID, true)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	}

	assert.Equal(t, entity.SwapPending, store.state.requests[req.ID].Status)
}

func TestRespondAlreadyResolved(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	bob := uuid.New()
	mine := seedEvent(state, alice, "standup", evententity.StatusSwapPending)
	theirs := seedEvent(state, bob, "review", evententity.StatusSwapPending)
	req := seedRequest(state, alice, bob, mine, theirs)

	svc, store, _ := newTestService(state)

	_, appErr := svc.Respond(context.Background(), bob, req.ID, false)
	require.Nil(t, appErr)

	// Second resolution attempt, either way, must fail.
	for _, accept := range []bool{true, false} {
		_, appErr = svc.Respond(context.Background(), bob, req.ID, accept)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrAlreadyResolved, appErr.Code)
	}

	// The first rejection's effects stay intact.
	assert.Equal(t, entity.SwapRejected, store.state.requests[req.ID].Status)
	assert.Equal(t, evententity.StatusSwappable, store.state.events[mine.ID].Status)
}

func TestListIncomingOutgoing(t *testing.T) {
	state := newFakeState()
	alice := uuid.New()
	bob := uuid.New()
	mine := seedEvent(state, alice, "standup", evententity.StatusSwapPending)
	theirs := seedEvent(state, bob, "review", evententity.StatusSwapPending)
	seedRequest(state, alice, bob, mine, theirs)

	svc, _, _ := newTestService(state)

	incoming, appErr := svc.ListIncoming(context.Background(), bob)
	require.Nil(t, appErr)
	assert.Len(t, incoming, 1)

	outgoing, appErr := svc.ListOutgoing(context.Background(), alice)
	require.Nil(t, appErr)
	assert.Len(t, outgoing, 1)

	// Empty results come back as an empty slice, not nil.
	none, appErr := svc.ListIncoming(context.Background(), alice)
	require.Nil(t, appErr)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
