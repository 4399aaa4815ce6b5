package suggest

// Request is the body accepted by the suggestion endpoint.
type Request struct {
	ImageBase64 string `json:"imageBase64"`
	MediaType   string `json:"mediaType"`
}

// Suggestion is the catalog text proposed for an item photo.
type Suggestion struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	SuggestedSize *string `json:"suggested_size"`
}

// Size returns the suggested size, or "" when the item is not wearable.
func (s Suggestion) Size() string {
	if s.SuggestedSize == nil {
		return ""
	}
	return *s.SuggestedSize
}

type errorBody struct {
	Error string `json:"error"`
}
