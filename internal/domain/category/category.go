package category

import "errors"

var ErrNotFound = errors.New("category not found")

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=80"`
}
