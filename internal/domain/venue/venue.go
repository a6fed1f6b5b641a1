package venue

import "errors"

var ErrNotFound = errors.New("venue not found")

type Venue struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Address  string `json:"address,omitempty"`
	Capacity int    `json:"capacity"`
}

type CreateVenueRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	City     string `json:"city" binding:"required,min=2,max=80"`
	Address  string `json:"address" binding:"omitempty,max=200"`
	Capacity int    `json:"capacity" binding:"required,min=1,max=500000"`
}
