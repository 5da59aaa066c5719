package dto

// Page is a limit/offset page. Next and Previous are absolute URLs, or null
// at either end.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ResultSuccess is the value of "result" on every successful envelope
const ResultSuccess = "success"
