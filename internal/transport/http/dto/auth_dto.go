package dto

type RegisterRequest struct {
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	DisplayName  string   `json:"display_name"`
	Gender       string   `json:"gender"`
	InterestedIn string   `json:"interested_in"`
	Birthdate    string   `json:"birthdate"`
	Bio          string   `json:"bio,omitempty"`
	Photos       []string `json:"photos,omitempty"`
	Interests    []string `json:"interests,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthTokensResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresInSec int64          `json:"expires_in_sec"`
	Me           AuthMeResponse `json:"me"`
}

type AuthMeResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

type LogoutResponse struct {
	OK bool `json:"ok"`
}
