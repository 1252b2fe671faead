package promo

import "time"

type Promo struct {
	ID        string
	Code      string
	Discount  int // percent
	ActiveAt  time.Time
	ExpiresAt time.Time
}

// ActiveWithin reports whether the promo window covers t: [ActiveAt, ExpiresAt).
func (p *Promo) ActiveWithin(t time.Time) bool {
	return !t.Before(p.ActiveAt) && t.Before(p.ExpiresAt)
}
