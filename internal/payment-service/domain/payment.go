package domain

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

type Payment struct {
	ID            int `gorm:"primaryKey"`
	IsPayed       bool
	PaymentStatus Status
	OrderID       int `gorm:"index"`
}

func PaymentKey(p Payment) int { return p.ID }
