package domain

import "time"

// Purchase liga un curso comprado/desbloqueado a un usuario.
type Purchase struct {
	UserID      string    `json:"user_id"`
	CourseID    string    `json:"course_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// PasswordOTP es el codigo de recuperacion vigente para un email.
// Se guarda solo el hash; caduca a los 5 minutos de created_at.
type PasswordOTP struct {
	Email     string
	CodeHash  string
	CreatedAt time.Time
}
