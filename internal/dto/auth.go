package dto

// TokenTypeBearer is the only token type issued by the API.
const TokenTypeBearer = "Bearer"

// LoginRequest captures credential input.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest captures self-service registration payloads. Email shape
// is checked by the service after normalization.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,max=320"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenResponse carries the issued access token and the identity that
// mutations made with it are recorded under.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	Actor       string `json:"actor"`
}

// NewTokenResponse wraps a signed bearer token.
func NewTokenResponse(token, role, actor string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: TokenTypeBearer, Role: role, Actor: actor}
}
