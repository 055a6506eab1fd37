package amenity

import "errors"

var ErrNotFound = errors.New("amenity not found")

const (
	MsgNotFound  = "Amenity not found"
	MsgNameTaken = "An amenity with this name already exists."
)
