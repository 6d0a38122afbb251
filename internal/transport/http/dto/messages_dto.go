package dto

import "time"

type SendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Text       string `json:"text"`
}

type MessageResponse struct {
	ID           int64     `json:"id"`
	MatchID      int64     `json:"match_id"`
	SenderUserID int64     `json:"sender_user_id"`
	Text         string    `json:"text"`
	Seen         bool      `json:"seen"`
	CreatedAt    time.Time `json:"created_at"`
}

type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
}

type MarkSeenResponse struct {
	Updated int `json:"updated"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
