package request_models

type CreateSessionRequest struct {
	ProductID string `json:"productId" binding:"required"`
}
