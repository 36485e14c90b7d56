package response_models

// RelatedItem links a suggestion back to the goal or initiative it mentions.
type RelatedItem struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

type Suggestion struct {
	Text        string       `json:"text"`
	RelatedItem *RelatedItem `json:"relatedItem,omitempty"`
}

// ExtractableItem is a goal or initiative proposal parsed out of a streamed
// onboarding reply.
type ExtractableItem struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	GoalID string `json:"goalId,omitempty"`
	Text   string `json:"text"`
}
