package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/zluffi/zluffi-backend/internal/dto"
	"github.com/zluffi/zluffi-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrReceiverNotFound       = errors.New("receiver not found")
	ErrInvalidConversationKey = errors.New("invalid conversation ID")
	ErrBlockedPair            = errors.New("messaging is not available for this user")
)

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// conversationKey identifies a thread: two users about one listing.
type conversationKey struct {
	otherUserID uuid.UUID
	listingID   uint64
}

// ParseConversationKey splits the composite `otherUserId_listingId`
// thread identifier.
func ParseConversationKey(key string) (uuid.UUID, uint64, error) {
	idx := strings.LastIndex(key, "_")
	if idx <= 0 || idx == len(key)-1 {
		return uuid.Nil, 0, ErrInvalidConversationKey
	}
	otherID, err := uuid.Parse(key[:idx])
	if err != nil {
		return uuid.Nil, 0, ErrInvalidConversationKey
	}
	listingID, err := strconv.ParseUint(key[idx+1:], 10, 64)
	if err != nil || listingID == 0 {
		return uuid.Nil, 0, ErrInvalidConversationKey
	}
	return otherID, listingID, nil
}

// Send validates and stores a new unread message.
func (s *MessageService) Send(senderID uuid.UUID, req *dto.SendMessageRequest) (uuid.UUID, error) {
	v := &ValidationError{}
	if req.ReceiverID == uuid.Nil {
		v.add("receiverId", "receiver is required")
	}
	if n := utf8.RuneCountInString(req.Content); n < 1 || n > 1000 {
		v.add("content", "content must be between 1 and 1000 characters")
	}
	if err := v.orNil(); err != nil {
		return uuid.Nil, err
	}

	var listing models.Listing
	if err := s.db.Select("id").First(&listing, "id = ?", req.ListingID).Error; err != nil {
		return uuid.Nil, ErrListingNotFound
	}
	var receiver models.User
	if err := s.db.Select("id").First(&receiver, "id = ?", req.ReceiverID).Error; err != nil {
		return uuid.Nil, ErrReceiverNotFound
	}

	blocked, err := s.isBlockedPair(senderID, req.ReceiverID)
	if err != nil {
		return uuid.Nil, err
	}
	if blocked {
		return uuid.Nil, ErrBlockedPair
	}

	msg := models.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		ListingID:  req.ListingID,
		Content:    req.Content,
		IsRead:     false,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg.ID, nil
}

// Conversations aggregates every message the user participates in into
// per-(other user, listing) summaries, most recent thread first.
func (s *MessageService) Conversations(userID uuid.UUID) ([]dto.ConversationSummary, error) {
	var messages []models.Message
	err := s.db.
		Preload("Sender").
		Preload("Receiver").
		Preload("Listing").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	// Messages arrive newest first, so the first message seen for a
	// key is that conversation's last message and the map insertion
	// order is already the inbox order.
	summaries := make([]dto.ConversationSummary, 0)
	index := make(map[conversationKey]int)
	for _, m := range messages {
		other := m.Sender
		otherID := m.SenderID
		if m.SenderID == userID {
			other = m.Receiver
			otherID = m.ReceiverID
		}

		key := conversationKey{otherUserID: otherID, listingID: m.ListingID}
		i, seen := index[key]
		if !seen {
			summary := dto.ConversationSummary{
				OtherUserID:  otherID,
				ListingID:    m.ListingID,
				ListingTitle: m.Listing.Title,
				LastMessage:  toMessageView(m),
			}
			if other.Name != nil {
				summary.OtherUserName = *other.Name
			}
			summaries = append(summaries, summary)
			i = len(summaries) - 1
			index[key] = i
		}
		if m.ReceiverID == userID && !m.IsRead {
			summaries[i].UnreadCount++
		}
	}
	return summaries, nil
}

// Thread returns the messages whose participant set is exactly
// {userID, otherUserID} for the listing, oldest first, then marks the
// user's incoming messages in that thread as read. The returned
// messages carry the read state as of the fetch, so a receiver sees
// is_read=false on first load and true afterwards.
func (s *MessageService) Thread(userID, otherUserID uuid.UUID, listingID uint64) (*dto.ThreadResponse, error) {
	var messages []models.Message
	err := s.db.
		Preload("Sender").
		Preload("Receiver").
		Where("listing_id = ?", listingID).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Order("created_at").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread: %w", err)
	}

	err = s.db.Model(&models.Message{}).
		Where("listing_id = ? AND receiver_id = ? AND sender_id = ? AND is_read = ?",
			listingID, userID, otherUserID, false).
		Update("is_read", true).Error
	if err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}

	var listing models.Listing
	if err := s.db.Select("title", "price").First(&listing, "id = ?", listingID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}

	views := make([]dto.MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, toMessageView(m))
	}
	return &dto.ThreadResponse{
		Messages: views,
		Listing:  dto.ThreadListing{Title: listing.Title, Price: listing.Price},
	}, nil
}

func (s *MessageService) isBlockedPair(a, b uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check blocks: %w", err)
	}
	return count > 0, nil
}

func toMessageView(m models.Message) dto.MessageView {
	view := dto.MessageView{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		ListingID:  m.ListingID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
	if m.Sender.Name != nil {
		view.SenderName = *m.Sender.Name
	}
	if m.Receiver.Name != nil {
		view.ReceiverName = *m.Receiver.Name
	}
	return view
}
