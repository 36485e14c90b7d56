package response_models

type ProductInfo struct {
	ID          string `json:"id"`
	PriceID     string `json:"priceId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Interval    string `json:"interval"`
	TrialDays   int64  `json:"trialDays"`
}

type SubscriptionStatus struct {
	IsSubscribed     bool    `json:"isSubscribed"`
	SubscriptionType *string `json:"subscriptionType"`
	SubscriptionEnd  *int64  `json:"subscriptionEnd"`
	ActiveProductID  *string `json:"activeProductId"`
}
