package dto

type SwipeRequest struct {
	TargetID int64  `json:"target_id"`
	Decision string `json:"decision"`
}

type SwipeResponse struct {
	OK           bool   `json:"ok"`
	Decision     string `json:"decision"`
	MatchCreated bool   `json:"match_created"`
}

type SwipeCheckResponse struct {
	Decided bool `json:"decided"`
}

type LikedMeResponse struct {
	Liked bool `json:"liked"`
}

type DecidedTargetsResponse struct {
	TargetIDs []int64 `json:"target_ids"`
}

type SwipeStatsResponse struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
	Total    int `json:"total"`
}
