package apartment

import "errors"

var (
	ErrNotFound = errors.New("apartment not found")
)

const (
	MsgNotFound       = "Apartment not found"
	MsgTitleTaken     = "An apartment with this title already exists."
	MsgAmenityMissing = "One or more selected amenities do not exist."
)
