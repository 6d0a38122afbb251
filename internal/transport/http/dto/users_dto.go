package dto

type UserResponse struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email,omitempty"`
	DisplayName  string   `json:"display_name"`
	Gender       string   `json:"gender"`
	InterestedIn string   `json:"interested_in,omitempty"`
	Age          int      `json:"age"`
	Bio          string   `json:"bio,omitempty"`
	Photos       []string `json:"photos,omitempty"`
	Interests    []string `json:"interests,omitempty"`
}

type UpdateUserRequest struct {
	DisplayName  *string  `json:"display_name,omitempty"`
	Gender       *string  `json:"gender,omitempty"`
	InterestedIn *string  `json:"interested_in,omitempty"`
	Birthdate    *string  `json:"birthdate,omitempty"`
	Bio          *string  `json:"bio,omitempty"`
	Photos       []string `json:"photos,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
}

type UpdateInterestsRequest struct {
	Interests []string `json:"interests"`
}

type DeleteUserResponse struct {
	OK bool `json:"ok"`
}
