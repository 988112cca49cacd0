package domain

import "time"

const (
	PaymentPending = "pending"
	PaymentSettled = "settled"
	PaymentFailed  = "failed"
	PaymentExpired = "expired"
)

// PaymentOrder mapea una sesion de checkout del gateway a un (usuario, curso).
type PaymentOrder struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CourseID    string    `json:"course_id"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	SnapToken   string    `json:"snap_token,omitempty"`
	RedirectURL string    `json:"redirect_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
