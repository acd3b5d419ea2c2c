package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"foodlink/internal/domain/entity"
	"foodlink/internal/domain/repository"
	ws "foodlink/internal/infrastructure/websocket"
	"foodlink/pkg/errors"
	"foodlink/pkg/logger"
)

// placeholderLastMessage seeds a fresh room's last-message cache before
// anyone has spoken.
const placeholderLastMessage = "Say hello and start the exchange!"

type ChatUseCase struct {
	roomRepo    repository.ChatRoomRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	wsManager   *ws.Manager
}

func NewChatUseCase(
	roomRepo repository.ChatRoomRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	wsManager *ws.Manager,
) *ChatUseCase {
	return &ChatUseCase{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		wsManager:   wsManager,
	}
}

type CreateRoomInput struct {
	ListingID   string
	RecipientID string
}

type RoomResponse struct {
	*entity.ChatRoom
	OtherUser *entity.User    `json:"other_user,omitempty"`
	Listing   *entity.Listing `json:"listing,omitempty"`
}

// DeriveRoomID maps an unordered member pair plus a listing context to the
// room key. The pair is sorted lexicographically first, so both sides of a
// first contact land in the same room no matter who taps "chat" first.
func DeriveRoomID(listingID, userA, userB string) string {
	lo, hi := userA, userB
	if hi < lo {
		lo, hi = hi, lo
	}
	if listingID == "" {
		return "direct_" + lo + "_" + hi
	}
	return listingID + "_" + lo + "_" + hi
}

// GetOrCreateRoom resolves the room for the caller and recipient, creating
// it on first contact. Re-requesting returns the existing room untouched.
func (uc *ChatUseCase) GetOrCreateRoom(ctx context.Context, callerID string, input CreateRoomInput) (*RoomResponse, error) {
	if callerID == input.RecipientID {
		return nil, errors.BadRequest("You cannot open a chat with yourself", nil)
	}

	recipient, err := uc.userRepo.GetByID(ctx, input.RecipientID)
	if err != nil {
		logger.Warn("GetOrCreateRoom: recipient %s not found: %v", input.RecipientID, err)
		return nil, err
	}

	var listing *entity.Listing
	if input.ListingID != "" {
		listing, err = uc.listingRepo.GetByID(ctx, input.ListingID)
		if err != nil {
			logger.Warn("GetOrCreateRoom: listing %s not found: %v", input.ListingID, err)
			return nil, err
		}
	}

	now := time.Now().UTC()
	room := &entity.ChatRoom{
		ID: DeriveRoomID(input.ListingID, callerID, input.RecipientID),
		Members: map[string]bool{
			callerID:          true,
			input.RecipientID: true,
		},
		LastMessage:   placeholderLastMessage,
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if listing != nil {
		room.ListingID = listing.ID
		room.ListingTitle = listing.Title
	}

	stored, created, err := uc.roomRepo.GetOrCreate(ctx, room)
	if err != nil {
		logger.Error("GetOrCreateRoom: failed to create room %s: %v", room.ID, err)
		return nil, err
	}

	if !stored.HasMember(callerID) {
		return nil, errors.Forbidden("You are not a participant in this chat room", nil)
	}

	if created {
		logger.Info("GetOrCreateRoom: created room %s for %s and %s", stored.ID, callerID, input.RecipientID)
	}

	return &RoomResponse{
		ChatRoom:  stored,
		OtherUser: recipient,
		Listing:   listing,
	}, nil
}

// SendMessage appends to the room's log and refreshes the room's
// last-message cache. The cache refresh is best effort: once the message
// write has succeeded, a failed refresh is logged and swallowed, and the
// next append heals it.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, roomID, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message text must not be empty", nil)
	}

	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(senderID) {
		return nil, errors.Forbidden("You are not a participant in this chat room", nil)
	}

	message := &entity.Message{
		ID:        uuid.New().String(),
		RoomID:    roomID,
		SenderID:  senderID,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		logger.Error("SendMessage: failed to store message in room %s: %v", roomID, err)
		return nil, err
	}

	if err := uc.roomRepo.SetLastMessage(ctx, roomID, message.Text, message.Timestamp); err != nil {
		logger.Warn("SendMessage: last-message cache refresh failed for room %s (message %s is durable): %v", roomID, message.ID, err)
	}

	uc.notifyNewMessage(room, message)

	return message, nil
}

// GetMessages returns the room's full history ascending by (timestamp, id).
func (uc *ChatUseCase) GetMessages(ctx context.Context, callerID, roomID string) ([]*entity.Message, error) {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(callerID) {
		return nil, errors.Forbidden("You are not a participant in this chat room", nil)
	}

	return uc.messageRepo.ListByRoom(ctx, roomID)
}

// SubscribeMessages opens a live subscription on the room's log. Every
// delivery is the full re-ordered history. The returned cancel func stops
// delivery and releases the listener; cancelling twice is a no-op.
func (uc *ChatUseCase) SubscribeMessages(ctx context.Context, callerID, roomID string) (<-chan []*entity.Message, context.CancelFunc, error) {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	if !room.HasMember(callerID) {
		return nil, nil, errors.Forbidden("You are not a participant in this chat room", nil)
	}

	subCtx, cancel := context.WithCancel(ctx)
	ch, err := uc.messageRepo.Listen(subCtx, roomID)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	return ch, cancel, nil
}

// ListRooms returns every room the user is a member of, most recently
// active first.
func (uc *ChatUseCase) ListRooms(ctx context.Context, userID string) ([]*RoomResponse, error) {
	rooms, err := uc.roomRepo.ListByMember(ctx, userID)
	if err != nil {
		logger.Error("ListRooms: failed to list rooms for user %s: %v", userID, err)
		return nil, err
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].LastMessageAt.After(rooms[j].LastMessageAt)
	})

	responses := make([]*RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		resp := &RoomResponse{ChatRoom: room}

		if otherID, ok := room.Counterpart(userID); ok {
			if otherUser, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
				resp.OtherUser = otherUser
			} else {
				logger.Warn("ListRooms: counterpart %s not found for room %s: %v", otherID, room.ID, err)
			}
		}

		responses = append(responses, resp)
	}

	return responses, nil
}

// SubscribeRooms opens a live subscription on the user's room list, ordered
// by last message time descending.
func (uc *ChatUseCase) SubscribeRooms(ctx context.Context, userID string) (<-chan []*entity.ChatRoom, context.CancelFunc, error) {
	subCtx, cancel := context.WithCancel(ctx)
	ch, err := uc.roomRepo.ListenByMember(subCtx, userID)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	return ch, cancel, nil
}

func (uc *ChatUseCase) GetRoomByID(ctx context.Context, callerID, roomID string) (*RoomResponse, error) {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(callerID) {
		return nil, errors.Forbidden("You are not a participant in this chat room", nil)
	}

	resp := &RoomResponse{ChatRoom: room}

	if otherID, ok := room.Counterpart(callerID); ok {
		if otherUser, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
			resp.OtherUser = otherUser
		}
	}
	if room.ListingID != "" {
		if listing, err := uc.listingRepo.GetByID(ctx, room.ListingID); err == nil {
			resp.Listing = listing
		}
	}

	return resp, nil
}

// DeleteRoom removes the room and cascades to its message log.
func (uc *ChatUseCase) DeleteRoom(ctx context.Context, callerID, roomID string) error {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasMember(callerID) {
		return errors.Forbidden("You are not a participant in this chat room", nil)
	}

	if err := uc.messageRepo.DeleteByRoom(ctx, roomID); err != nil {
		logger.Error("DeleteRoom: failed to delete messages of room %s: %v", roomID, err)
		return err
	}
	if err := uc.roomRepo.Delete(ctx, roomID); err != nil {
		logger.Error("DeleteRoom: failed to delete room %s: %v", roomID, err)
		return err
	}

	return nil
}

// SetAppointment writes the meeting date for a room. Either participant may
// set or overwrite it; the last write wins and no future-date check is made.
func (uc *ChatUseCase) SetAppointment(ctx context.Context, callerID, roomID string, date time.Time) error {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasMember(callerID) {
		return errors.Forbidden("You are not a participant in this chat room", nil)
	}

	if err := uc.roomRepo.SetAppointment(ctx, roomID, date); err != nil {
		logger.Error("SetAppointment: failed for room %s: %v", roomID, err)
		return err
	}

	uc.notifyAppointment(room, callerID, date)

	return nil
}

// GetAppointment returns the room's appointment date, or nil when none has
// been set.
func (uc *ChatUseCase) GetAppointment(ctx context.Context, callerID, roomID string) (*time.Time, error) {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(callerID) {
		return nil, errors.Forbidden("You are not a participant in this chat room", nil)
	}

	return room.AppointmentDate, nil
}

func (uc *ChatUseCase) notifyNewMessage(room *entity.ChatRoom, message *entity.Message) {
	if uc.wsManager == nil {
		return
	}

	if payload := ws.NewEvent(ws.EventTypeNewMessage, room.ID, message); payload != nil {
		uc.wsManager.SendToRoom(room.ID, payload, message.SenderID)
	}

	// Counterpart may be on the room-list screen rather than in the room.
	if otherID, ok := room.Counterpart(message.SenderID); ok {
		update := map[string]interface{}{
			"room_id":         room.ID,
			"last_message":    message.Text,
			"last_message_at": message.Timestamp.Format(time.RFC3339),
			"sender_id":       message.SenderID,
		}
		if payload := ws.NewEvent(ws.EventTypeRoomListUpdate, room.ID, update); payload != nil {
			uc.wsManager.SendToUser(otherID, payload)
		}
	}
}

func (uc *ChatUseCase) notifyAppointment(room *entity.ChatRoom, setterID string, date time.Time) {
	if uc.wsManager == nil {
		return
	}

	data := map[string]interface{}{
		"room_id":          room.ID,
		"appointment_date": date.Format(time.RFC3339),
		"set_by":           setterID,
	}
	if payload := ws.NewEvent(ws.EventTypeAppointmentSet, room.ID, data); payload != nil {
		uc.wsManager.SendToRoom(room.ID, payload, "")
	}
}
