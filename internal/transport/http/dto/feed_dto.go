package dto

type CandidateResponse struct {
	ID          int64    `json:"id"`
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	Bio         string   `json:"bio,omitempty"`
	Photos      []string `json:"photos,omitempty"`
	Interests   []string `json:"interests,omitempty"`
}

type CandidateListResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
}
