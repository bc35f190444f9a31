package pets

import "strings"

// CanAccess es la única regla de autorización: solo el dueño ve o modifica la mascota.
// Quien llama reporta la falla como NotFound, nunca como forbidden.
func CanAccess(userID string, p Pet) bool {
	userID = strings.TrimSpace(userID)
	return userID != "" && p.UserID == userID
}
