package domain

import "time"

// Order holds no items; they are owned by the shipping service and
// attached on read.
type Order struct {
	ID        int `gorm:"primaryKey"`
	OrderDate time.Time
	OrderDesc string
	OrderFee  float64
}

func OrderKey(o Order) int { return o.ID }
