package domain

// Product is a catalogue entry. Price and quantity are stored as given;
// zero is a valid quantity.
type Product struct {
	ID           int `gorm:"primaryKey"`
	ProductTitle string
	ImageURL     string
	SKU          string `gorm:"index"`
	PriceUnit    float64
	Quantity     int
}

func ProductKey(p Product) int { return p.ID }
