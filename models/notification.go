package models

// DietAssignedPayload is the queued job body for the "diet assigned" push.
type DietAssignedPayload struct {
	UserID    string `json:"userId"`
	DietID    string `json:"dietId"`
	FileName  string `json:"fileName"`
	TotalDays int    `json:"totalDays"`
}

type Notification struct {
	Topic string            `json:"topic"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}
