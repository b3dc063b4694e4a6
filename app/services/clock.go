package services

import "time"

// Clock supplies timestamps for created_at and updated_at.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Tests advance it by assigning.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }
