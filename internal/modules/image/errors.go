package image

import "errors"

var (
	ErrApartmentNotFound = errors.New("apartment not found")
	ErrImageNotFound     = errors.New("image not found")
	ErrExternalService   = errors.New("external image service failure")
)

const (
	MsgApartmentNotFound = "Apartment not found"
	MsgImageNotFound     = "Image not found"
	MsgUploadFailed      = "Failed to upload image to cloud storage"

	MsgImageRequired = "Please select an image to upload."
	MsgImageTooLarge = "The image cannot exceed 2MB. Please compress your image before uploading."
	MsgImageType     = "The image must be a file of type: jpeg, png, jpg, webp."
)

// ExternalError wraps a failure of the remote image host.
type ExternalError struct {
	Err error
}

func (e *ExternalError) Error() string {
	return "remote image store: " + e.Err.Error()
}

func (e *ExternalError) Unwrap() []error {
	return []error{ErrExternalService, e.Err}
}
