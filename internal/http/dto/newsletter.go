package dto

type SubscribeRequest struct {
	Email string `json:"email"`
}

type SubscriptionRef struct {
	Email string `json:"email"`
}

type SubscribeResponse struct {
	Message      string          `json:"message"`
	Subscription SubscriptionRef `json:"subscription"`
}
