package cart

import "errors"

var (
	ErrLineNotFound   = errors.New("cart line not found")
	ErrNotOwner       = errors.New("cart line belongs to another user")
	ErrLineCheckedOut = errors.New("cart line already checked out")
)
