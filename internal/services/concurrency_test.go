package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
	"github.com/mentorlink/mentorlink-api/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequestStore is an in-memory request store enforcing the same
// guarantees as the database schema: a unique constraint on the
// (requestor, acceptor) pair and an atomic compare-and-set on status.
type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[string]*models.MentorshipRequest
	byPair   map[string]string
	nextID   int
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{
		requests: make(map[string]*models.MentorshipRequest),
		byPair:   make(map[string]string),
	}
}

func pairKey(requestorID, acceptorID string) string {
	return requestorID + "/" + acceptorID
}

func (f *fakeRequestStore) Create(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := pairKey(requestorID, acceptorID)
	if _, exists := f.byPair[key]; exists {
		return nil, apperrors.DuplicateError("request for pair already exists")
	}

	f.nextID++
	request := &models.MentorshipRequest{
		ID:          fmt.Sprintf("r%d", f.nextID),
		RequestorID: requestorID,
		AcceptorID:  acceptorID,
		Status:      models.StatusPending,
	}
	f.requests[request.ID] = request
	f.byPair[key] = request.ID

	copied := *request
	return &copied, nil
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	request, ok := f.requests[id]
	if !ok {
		return nil, apperrors.NotFoundError("request " + id)
	}
	copied := *request
	return &copied, nil
}

func (f *fakeRequestStore) GetByPair(ctx context.Context, requestorID, acceptorID string) (*models.MentorshipRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.byPair[pairKey(requestorID, acceptorID)]
	if !ok {
		return nil, apperrors.NotFoundError("request for pair")
	}
	copied := *f.requests[id]
	return &copied, nil
}

func (f *fakeRequestStore) ListIncoming(ctx context.Context, acceptorID string) ([]*models.IncomingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	incoming := make([]*models.IncomingRequest, 0)
	for _, request := range f.requests {
		if request.AcceptorID == acceptorID {
			incoming = append(incoming, &models.IncomingRequest{
				ID:          request.ID,
				RequestorID: request.RequestorID,
				Status:      request.Status,
			})
		}
	}
	return incoming, nil
}

func (f *fakeRequestStore) Transition(ctx context.Context, id string, newStatus models.RequestStatus) (*models.MentorshipRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	request, ok := f.requests[id]
	if !ok {
		return nil, apperrors.NotFoundError("request " + id)
	}
	if request.Status != models.StatusPending {
		return nil, apperrors.ConflictError(fmt.Sprintf("request already %s", request.Status))
	}

	request.Status = newStatus
	copied := *request
	return &copied, nil
}

// fakeProfileDirectory is a fixed in-memory directory
type fakeProfileDirectory struct {
	profiles map[string]*models.Profile
}

func newFakeProfileDirectory(profiles ...*models.Profile) *fakeProfileDirectory {
	dir := &fakeProfileDirectory{profiles: make(map[string]*models.Profile)}
	for _, p := range profiles {
		dir.profiles[p.ID] = p
	}
	return dir
}

func (d *fakeProfileDirectory) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile, ok := d.profiles[id]
	if !ok {
		return nil, apperrors.NotFoundError("profile " + id)
	}
	return profile, nil
}

func (d *fakeProfileDirectory) GetAll(ctx context.Context) ([]*models.Profile, error) {
	all := make([]*models.Profile, 0, len(d.profiles))
	for _, p := range d.profiles {
		all = append(all, p)
	}
	return all, nil
}

func (d *fakeProfileDirectory) List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error) {
	return d.GetAll(ctx)
}

func (d *fakeProfileDirectory) InvalidateCache() {}

func TestMentorshipRequestService_ConcurrentCreates_OneWinner(t *testing.T) {
	store := newFakeRequestStore()
	directory := newFakeProfileDirectory(testMentee("u1"), testMentor("m1"))
	service := services.NewMentorshipRequestService(store, directory)
	ctx := context.Background()

	const workers = 20

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = service.Create(ctx, "u1", "m1")
		}(i)
	}
	wg.Wait()

	successes := 0
	duplicates := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.Is(err, apperrors.ErrDuplicate):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, duplicates)

	// Exactly one row exists for the pair
	request, err := store.GetByPair(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, request.Status)
}

func TestMentorshipRequestService_ConcurrentTransitions_OneWinner(t *testing.T) {
	store := newFakeRequestStore()
	directory := newFakeProfileDirectory(testMentee("u1"), testMentor("m1"))
	service := services.NewMentorshipRequestService(store, directory)
	ctx := context.Background()

	created, err := service.Create(ctx, "u1", "m1")
	require.NoError(t, err)

	const workers = 20

	var wg sync.WaitGroup
	errs := make([]error, workers)

	// Half accept, half decline, all racing for the same pending request
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if idx%2 == 0 {
				_, errs[idx] = service.Accept(ctx, "m1", created.ID)
			} else {
				_, errs[idx] = service.Decline(ctx, "m1", created.ID)
			}
		}(i)
	}
	wg.Wait()

	successes := 0
	conflicts := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.Is(err, apperrors.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	// The stored status is terminal and consistent with the single winner
	final, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, final.Status.IsTerminal())
}

func TestMentorshipRequestService_SequentialLifecycle(t *testing.T) {
	store := newFakeRequestStore()
	directory := newFakeProfileDirectory(testMentee("u1"), testMentor("m1"))
	service := services.NewMentorshipRequestService(store, directory)
	ctx := context.Background()

	created, err := service.Create(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)

	// Duplicate create for the same pair is rejected even after creation
	_, err = service.Create(ctx, "u1", "m1")
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicate))

	accepted, err := service.Accept(ctx, "m1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)

	// Declining after acceptance is a conflict, not a silent overwrite
	_, err = service.Decline(ctx, "m1", created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	status, err := service.GetStatus(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, status.Status)
}
