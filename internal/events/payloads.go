package events

import "time"

const (
	CartItemAdded        = "CartItemAdded"
	CartItemUpdated      = "CartItemUpdated"
	CartItemRemoved      = "CartItemRemoved"
	CartCleared          = "CartCleared"
	NewsletterSubscribed = "NewsletterSubscribed"
	TestimonialSubmitted = "TestimonialSubmitted"
)

const eventVersion = 1

type CartItemAddedPayload struct {
	SessionID     string            `json:"sessionId"`
	CartItemID    int64             `json:"cartItemId"`
	ProductID     int64             `json:"productId"`
	Quantity      int               `json:"quantity"`
	Customization map[string]string `json:"customization,omitempty"`
	AddedAt       time.Time         `json:"addedAt"`
}

type CartItemUpdatedPayload struct {
	SessionID  string `json:"sessionId"`
	CartItemID int64  `json:"cartItemId"`
	Quantity   int    `json:"quantity"`
}

type CartItemRemovedPayload struct {
	CartItemID int64 `json:"cartItemId"`
}

type CartClearedPayload struct {
	SessionID    string `json:"sessionId"`
	RemovedCount int    `json:"removedCount"`
}

type NewsletterSubscribedPayload struct {
	SubscriptionID int64     `json:"subscriptionId"`
	Email          string    `json:"email"`
	SubscribedAt   time.Time `json:"subscribedAt"`
}

type TestimonialSubmittedPayload struct {
	TestimonialID int64  `json:"testimonialId"`
	Rating        int    `json:"rating"`
	ProductID     *int64 `json:"productId,omitempty"`
}
