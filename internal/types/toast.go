package types

import "time"

// DefaultToastTTL is how long a toast stays on screen
const DefaultToastTTL = 4 * time.Second

// Toast represents a notification message
type Toast struct {
	Level   ToastLevel
	Message string
	Expires time.Time
}

// NewToast creates a toast that expires DefaultToastTTL from now
func NewToast(level ToastLevel, message string) Toast {
	return Toast{Level: level, Message: message, Expires: time.Now().Add(DefaultToastTTL)}
}

// ToastLevel indicates the severity of a toast
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)
