package model

// TokenManager issues and validates session access tokens for the auth
// boundary. Only active accounts are ever handed a token.
type TokenManager interface {
	GenerateAccessToken(actor Actor) (string, error)
	ParseAccessToken(token string) (Actor, error)
}
