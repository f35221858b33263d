package userservice

// UserStatus статус учетной записи в UserService
type UserStatus string

const (
	StatusPending  UserStatus = "pending"
	StatusApproved UserStatus = "approved"
	StatusDeclined UserStatus = "declined"
)

// User модель пользователя из UserService
type User struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Status UserStatus `json:"status"` // Статус одобрения регистрации
}

// IsApproved returns true if the user's registration has been approved
func (u *User) IsApproved() bool {
	return u.Status == StatusApproved
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
