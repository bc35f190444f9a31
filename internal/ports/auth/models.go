package auth

// Claims representa la identidad autenticada de un request.
type Claims struct {
	UserID string
	Email  string
}
