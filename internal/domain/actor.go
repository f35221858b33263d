package domain

// Role represents the role of the session performing an operation
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Actor явный контекст сессии, передаваемый в операции движка
// Заменяет глобальное session-состояние: операции не читают идентичность
// из окружения, а получают её аргументом
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true if the actor has administrative rights
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns returns true if the actor is the user with the given id
func (a Actor) Owns(userID int64) bool {
	return a.UserID == userID
}
