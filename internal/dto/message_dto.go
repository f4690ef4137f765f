package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiverId"`
	ListingID  uint64    `json:"listingId"`
	Content    string    `json:"content"`
}

type SendMessageResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

type MessageView struct {
	ID           uuid.UUID `json:"id"`
	SenderID     uuid.UUID `json:"sender_id"`
	ReceiverID   uuid.UUID `json:"receiver_id"`
	ListingID    uint64    `json:"listing_id"`
	Content      string    `json:"content"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
	SenderName   string    `json:"sender_name"`
	ReceiverName string    `json:"receiver_name"`
}

// ConversationSummary describes one (other participant, listing)
// thread in the inbox.
type ConversationSummary struct {
	OtherUserID   uuid.UUID   `json:"otherUserId"`
	OtherUserName string      `json:"otherUserName"`
	ListingID     uint64      `json:"listingId"`
	ListingTitle  string      `json:"listingTitle"`
	LastMessage   MessageView `json:"lastMessage"`
	UnreadCount   int         `json:"unreadCount"`
}

type ConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
}

type ThreadListing struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

type ThreadResponse struct {
	Messages []MessageView `json:"messages"`
	Listing  ThreadListing `json:"listing"`
}
