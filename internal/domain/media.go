package domain

// Image is a stored media asset: a stable identifier at the media host plus
// its public URL.
type Image struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}
