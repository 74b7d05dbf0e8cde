package domain

// StoredImage describes an uploaded image file as returned to clients.
type StoredImage struct {
	URL      string `json:"imageUrl"`
	Filename string `json:"filename"`
}
