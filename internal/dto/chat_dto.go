package dto

type ChatConfigRequest struct {
	Provider   string `json:"provider" validate:"required,oneof=openai azure"`
	APIKey     string `json:"api_key"`
	Endpoint   string `json:"endpoint"`
	APIVersion string `json:"api_version"`
	Deployment string `json:"deployment"`
}

type AskRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
}
