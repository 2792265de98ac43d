package service

import (
	"data-explorer-be/pkg/frame"
	"data-explorer-be/pkg/llm"
)

// Event is one user interaction with the page. The set is closed.
type Event interface {
	isPageEvent()
	Name() string
}

type RenderEvent struct{}

type LoginEvent struct {
	Username string
	Password string
}

type LogoutEvent struct{}

// UploadEvent with a nil File removes the active dataset.
type UploadEvent struct {
	File     *frame.Upload
	Encoding string
}

type ConfigureChatEvent struct {
	Credentials llm.Credentials
}

type AskEvent struct {
	Question string
}

type ClearChatEvent struct{}

func (RenderEvent) isPageEvent()        {}
func (LoginEvent) isPageEvent()         {}
func (LogoutEvent) isPageEvent()        {}
func (UploadEvent) isPageEvent()        {}
func (ConfigureChatEvent) isPageEvent() {}
func (AskEvent) isPageEvent()           {}
func (ClearChatEvent) isPageEvent()     {}

func (RenderEvent) Name() string        { return "render" }
func (LoginEvent) Name() string         { return "login" }
func (LogoutEvent) Name() string        { return "logout" }
func (UploadEvent) Name() string        { return "upload" }
func (ConfigureChatEvent) Name() string { return "configure_chat" }
func (AskEvent) Name() string           { return "ask" }
func (ClearChatEvent) Name() string     { return "clear_chat" }

// protected events need an authenticated session when the page has a login.
func protected(e Event) bool {
	switch e.(type) {
	case RenderEvent, LoginEvent, LogoutEvent:
		return false
	default:
		return true
	}
}
