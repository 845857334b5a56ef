package entity

import "time"

// ToastStatus mirrors the notification styles rendered by the pages.
type ToastStatus string

const (
	ToastSuccess ToastStatus = "success"
	ToastError   ToastStatus = "error"
	ToastInfo    ToastStatus = "info"
)

// Toast is a transient notification shown after a submission.
type Toast struct {
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description,omitempty" yaml:"description"`
	Status      ToastStatus   `json:"status" yaml:"status"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// DurationMillis is used by the page script to dismiss the toast.
func (t Toast) DurationMillis() int64 {
	return t.Duration.Milliseconds()
}
