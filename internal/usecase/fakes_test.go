package usecase

import (
	"context"
	"sync"
	"time"

	"foodlink/internal/domain/entity"
	"foodlink/pkg/errors"
)

// In-memory repository fakes. They honor the same contracts the Firestore
// adapters do: atomic get-or-create, atomic read-verify-write on profiles,
// and (timestamp, id) ascending message order.

type fakeRoomRepo struct {
	mu             sync.Mutex
	rooms          map[string]*entity.ChatRoom
	lastMessageErr error
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[string]*entity.ChatRoom)}
}

func (r *fakeRoomRepo) GetOrCreate(ctx context.Context, room *entity.ChatRoom) (*entity.ChatRoom, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.rooms[room.ID]; ok {
		return existing, false, nil
	}
	r.rooms[room.ID] = room
	return room, true, nil
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, id string) (*entity.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, errors.NotFound("Chat room", nil)
	}
	return room, nil
}

func (r *fakeRoomRepo) SetLastMessage(ctx context.Context, roomID, text string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastMessageErr != nil {
		return r.lastMessageErr
	}
	room, ok := r.rooms[roomID]
	if !ok {
		return errors.NotFound("Chat room", nil)
	}
	room.LastMessage = text
	room.LastMessageAt = at
	room.UpdatedAt = at
	return nil
}

func (r *fakeRoomRepo) SetAppointment(ctx context.Context, roomID string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return errors.NotFound("Chat room", nil)
	}
	d := date
	room.AppointmentDate = &d
	room.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeRoomRepo) ListByMember(ctx context.Context, userID string) ([]*entity.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rooms []*entity.ChatRoom
	for _, room := range r.rooms {
		if room.HasMember(userID) {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

func (r *fakeRoomRepo) ListenByMember(ctx context.Context, userID string) (<-chan []*entity.ChatRoom, error) {
	rooms, _ := r.ListByMember(ctx, userID)

	ch := make(chan []*entity.ChatRoom, 1)
	ch <- rooms
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (r *fakeRoomRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return errors.NotFound("Chat room", nil)
	}
	delete(r.rooms, id)
	return nil
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  map[string][]*entity.Message
	createErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string][]*entity.Message)}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	r.messages[message.RoomID] = append(r.messages[message.RoomID], message)
	return nil
}

func (r *fakeMessageRepo) ListByRoom(ctx context.Context, roomID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Message, len(r.messages[roomID]))
	copy(out, r.messages[roomID])
	entity.SortMessages(out)
	return out, nil
}

func (r *fakeMessageRepo) Listen(ctx context.Context, roomID string) (<-chan []*entity.Message, error) {
	snapshot, _ := r.ListByRoom(ctx, roomID)

	ch := make(chan []*entity.Message, 1)
	ch <- snapshot
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (r *fakeMessageRepo) DeleteByRoom(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.messages, roomID)
	return nil
}

type fakeUserRepo struct {
	mu         sync.Mutex
	users      map[string]*entity.User
	applyCalls int
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

// ApplyRatings serializes transforms per repository, mirroring the
// transactional contract of the Firestore adapter.
func (r *fakeUserRepo) ApplyRatings(ctx context.Context, userID string, transform func(user *entity.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	r.applyCalls++
	if err := transform(user); err != nil {
		return err
	}
	user.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[string]*entity.Listing
}

func newFakeListingRepo(listings ...*entity.Listing) *fakeListingRepo {
	r := &fakeListingRepo{listings: make(map[string]*entity.Listing)}
	for _, l := range listings {
		r.listings[l.ID] = l
	}
	return r
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	return listing, nil
}

// fixedCarbon pins the per-exchange carbon estimate so assertions on derived
// totals are deterministic.
type fixedCarbon struct {
	grams int
}

func (f fixedCarbon) Estimate() int {
	return f.grams
}
