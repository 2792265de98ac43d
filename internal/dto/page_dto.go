package dto

import (
	"time"

	"data-explorer-be/pkg/explorer"
)

// PageView is what the page shows after one event.
type PageView struct {
	Page     PageMeta       `json:"page"`
	Auth     *AuthView      `json:"auth,omitempty"`
	Upload   *UploadView    `json:"upload,omitempty"`
	Dataset  *DatasetView   `json:"dataset,omitempty"`
	Explorer *explorer.Spec `json:"explorer,omitempty"`
	Chat     *ChatView      `json:"chat,omitempty"`
	Tabs     []string       `json:"tabs,omitempty"`
	Sample   *SampleView    `json:"sample,omitempty"`
}

type PageMeta struct {
	Title   string `json:"title"`
	Icon    string `json:"icon"`
	Layout  string `json:"layout"`
	Variant int    `json:"variant"`
}

type AuthView struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Username     string `json:"username,omitempty"`
	Name         string `json:"name,omitempty"`
	AttemptsLeft int    `json:"attempts_left"`
	ShowLogout   bool   `json:"show_logout"`
}

type UploadView struct {
	Label           string   `json:"label"`
	AllowedTypes    []string `json:"allowed_types"`
	EncodingOptions []string `json:"encoding_options,omitempty"`
	Encoding        string   `json:"encoding,omitempty"`
	Error           string   `json:"error,omitempty"`
}

type DatasetView struct {
	Name    string   `json:"name"`
	Format  string   `json:"format"`
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	Fields  []string `json:"fields"`
}

type SampleView struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type ChatView struct {
	Providers  []string        `json:"providers"`
	Provider   string          `json:"provider"`
	Ready      bool            `json:"ready"`
	Missing    []string        `json:"missing,omitempty"`
	Notice     string          `json:"notice,omitempty"`
	History    []ChatRecordDTO `json:"history"`
	LastAnswer string          `json:"last_answer,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type ChatRecordDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
