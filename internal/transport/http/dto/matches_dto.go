package dto

import "time"

type MatchItemResponse struct {
	ID           int64     `json:"id"`
	TargetUserID int64     `json:"target_user_id"`
	DisplayName  string    `json:"display_name"`
	Age          int       `json:"age"`
	CreatedAt    time.Time `json:"created_at"`
}

type MatchListResponse struct {
	Matches []MatchItemResponse `json:"matches"`
}

type MatchResponse struct {
	ID        int64     `json:"id"`
	UserAID   int64     `json:"user_a_id"`
	UserBID   int64     `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CanChatResponse struct {
	CanChat bool `json:"can_chat"`
}

type UnmatchResponse struct {
	Deleted bool `json:"deleted"`
}
