package api

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question string `json:"question" validate:"required,max=1000"`
}

// FeedbackRequest is the body of POST /api/feedback.
type FeedbackRequest struct {
	MessageID string `json:"messageId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}
