package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"data-explorer-be/internal/config"
	"data-explorer-be/internal/constant"
	"data-explorer-be/internal/dto"
	"data-explorer-be/internal/entity"
	"data-explorer-be/internal/mapper"
	"data-explorer-be/internal/pkg/logger"
	"data-explorer-be/internal/repository/contract"
	"data-explorer-be/pkg/authenticator"
	"data-explorer-be/pkg/explorer"
	"data-explorer-be/pkg/frame"
	"data-explorer-be/pkg/llm"
	"data-explorer-be/pkg/sample"

	"github.com/google/uuid"
)

const sessionLockStripes = 64

// PageSettings is the static part of every page view.
type PageSettings struct {
	Title     string
	Icon      string
	Variant   int
	Features  config.Features
	SampleURL string
}

// Request carries one event for one browser session. Cookie looks up
// request cookies by name.
type Request struct {
	SessionID uuid.UUID
	Cookie    func(name string) string
	Event     Event
}

// CookieDirective tells the transport to set or clear the login cookie.
type CookieDirective struct {
	Name    string
	Value   string
	Expires time.Time
	Clear   bool
}

type Result struct {
	View   *dto.PageView
	Cookie *CookieDirective
	// Denied is set when the event needed a login the session lacks.
	Denied bool
	// Rejected is set when an upload could not be decoded with the chosen
	// encoding. The view carries the message.
	Rejected bool
}

type IPageService interface {
	// Handle applies one event to the session and returns the full page.
	Handle(ctx context.Context, req Request) (*Result, error)
	Explorer(ctx context.Context, sessionID uuid.UUID, cookie func(string) string) (*explorer.Spec, error)
	Sample(ctx context.Context, sessionID uuid.UUID, cookie func(string) string) (*sample.Asset, error)
}

type pageService struct {
	settings PageSettings
	sessions contract.SessionRepository
	auth     IAuthService
	dataset  IDatasetService
	chat     IChatService
	samples  sample.Store
	mapper   *mapper.PageMapper
	log      logger.ILogger
	now      func() time.Time

	locks [sessionLockStripes]sync.Mutex
}

// NewPageService wires the page. auth, chat and samples are nil when the
// variant does not have the feature.
func NewPageService(
	settings PageSettings,
	sessions contract.SessionRepository,
	auth IAuthService,
	dataset IDatasetService,
	chat IChatService,
	samples sample.Store,
	log logger.ILogger,
) IPageService {
	return &pageService{
		settings: settings,
		sessions: sessions,
		auth:     auth,
		dataset:  dataset,
		chat:     chat,
		samples:  samples,
		mapper:   mapper.NewPageMapper(authenticator.MaxLoginAttempts),
		log:      log,
		now:      time.Now,
	}
}

// viewExtras is what one cycle shows but the session does not keep.
type viewExtras struct {
	uploadError     string
	lastAnswer      string
	chatError       string
	includeExplorer bool
}

func (s *pageService) Handle(ctx context.Context, req Request) (*Result, error) {
	if req.Event == nil {
		return nil, errors.New("page event is required")
	}

	unlock := s.lock(req.SessionID)
	defer unlock()

	state, err := s.load(ctx, req.SessionID, req.Cookie)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	extras := viewExtras{}
	if err := s.apply(ctx, state, req.Event, result, &extras); err != nil {
		// a failed event may still have cleared the frame
		if saveErr := s.save(ctx, state); saveErr != nil {
			s.log.Error("page", "failed to save session after error", map[string]interface{}{
				"session_id": state.Id.String(),
				"error":      saveErr.Error(),
			})
		}
		return nil, err
	}

	if err := s.save(ctx, state); err != nil {
		return nil, err
	}

	s.log.Debug("page", "event handled", map[string]interface{}{
		"session_id": state.Id.String(),
		"event":      req.Event.Name(),
		"denied":     result.Denied,
	})

	result.View = s.view(state, extras)
	return result, nil
}

func (s *pageService) apply(ctx context.Context, state *entity.SessionState, event Event, result *Result, extras *viewExtras) error {
	if protected(event) && s.auth != nil && !state.IsAuthenticated() {
		result.Denied = true
		return nil
	}

	switch e := event.(type) {
	case RenderEvent:
		extras.includeExplorer = true

	case LoginEvent:
		if s.auth == nil {
			return ErrFeatureDisabled
		}
		ticket, err := s.auth.Login(ctx, state, e.Username, e.Password)
		if err != nil {
			return err
		}
		if ticket != nil {
			result.Cookie = &CookieDirective{Name: ticket.CookieName, Value: ticket.Token, Expires: ticket.ExpiresAt}
		}

	case LogoutEvent:
		if s.auth == nil {
			return ErrFeatureDisabled
		}
		name, err := s.auth.Logout(ctx, state)
		if err != nil {
			return err
		}
		result.Cookie = &CookieDirective{Name: name, Clear: true}

	case UploadEvent:
		extras.includeExplorer = true
		err := s.dataset.Upload(ctx, state, e.File, e.Encoding)
		var encErr *frame.EncodingError
		if errors.As(err, &encErr) {
			extras.uploadError = encErr.Error()
			result.Rejected = true
			return nil
		}
		return err

	case ConfigureChatEvent:
		if s.chat == nil {
			return ErrFeatureDisabled
		}
		return s.chat.Configure(ctx, state, e.Credentials)

	case AskEvent:
		if s.chat == nil {
			return ErrFeatureDisabled
		}
		outcome, err := s.chat.Ask(ctx, state, e.Question)
		if err != nil {
			return err
		}
		extras.lastAnswer = outcome.Answer
		if outcome.Err != nil {
			extras.chatError = outcome.Err.Error()
		}

	case ClearChatEvent:
		if s.chat == nil {
			return ErrFeatureDisabled
		}
		s.chat.Clear(ctx, state)

	default:
		return fmt.Errorf("unknown page event %T", event)
	}
	return nil
}

func (s *pageService) Explorer(ctx context.Context, sessionID uuid.UUID, cookie func(string) string) (*explorer.Spec, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	state, err := s.load(ctx, sessionID, cookie)
	if err != nil {
		return nil, err
	}
	if s.auth != nil && !state.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.dataset.Explorer(state)
}

func (s *pageService) Sample(ctx context.Context, sessionID uuid.UUID, cookie func(string) string) (*sample.Asset, error) {
	if !s.settings.Features.SampleData || s.samples == nil {
		return nil, ErrFeatureDisabled
	}

	unlock := s.lock(sessionID)
	state, err := s.load(ctx, sessionID, cookie)
	unlock()
	if err != nil {
		return nil, err
	}
	if s.auth != nil && !state.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.samples.Open(ctx)
}

func (s *pageService) lock(id uuid.UUID) func() {
	h := fnv.New32a()
	h.Write(id[:])
	m := &s.locks[h.Sum32()%sessionLockStripes]
	m.Lock()
	return m.Unlock
}

func (s *pageService) load(ctx context.Context, id uuid.UUID, cookie func(string) string) (*entity.SessionState, error) {
	state, err := s.sessions.Get(ctx, id)
	if errors.Is(err, contract.ErrSessionNotFound) {
		state = entity.NewSessionState(id, s.now())
	} else if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if s.auth != nil && cookie != nil {
		if err := s.auth.Restore(ctx, state, cookie); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func (s *pageService) save(ctx context.Context, state *entity.SessionState) error {
	state.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *pageService) view(state *entity.SessionState, extras viewExtras) *dto.PageView {
	view := &dto.PageView{
		Page: dto.PageMeta{
			Title:   s.settings.Title,
			Icon:    s.settings.Icon,
			Layout:  constant.PageLayout,
			Variant: s.settings.Variant,
		},
	}

	if s.auth != nil {
		view.Auth = s.mapper.AuthView(state)
		if !state.IsAuthenticated() {
			return view
		}
	}

	encoding := state.Encoding
	if encoding == "" {
		encoding = s.dataset.DefaultEncoding()
	}
	label := constant.UploadLabelCSV
	if s.settings.Features.Excel {
		label = constant.UploadLabelCSVExcel
	}
	view.Upload = &dto.UploadView{
		Label:           label,
		AllowedTypes:    s.dataset.AllowedTypes(),
		EncodingOptions: s.dataset.EncodingOptions(),
		Error:           extras.uploadError,
	}
	if s.settings.Features.EncodingSelect {
		view.Upload.Encoding = encoding
	}

	view.Dataset = s.mapper.DatasetView(state.Frame)
	if state.Frame != nil && extras.includeExplorer {
		view.Explorer = explorer.NewRenderer(state.Frame).Spec()
	}

	if s.settings.Features.SampleData {
		view.Sample = &dto.SampleView{Label: constant.SampleDataLabel, URL: s.settings.SampleURL}
	}

	if s.chat != nil {
		view.Chat = s.chatView(state, extras)
		view.Tabs = []string{constant.TabExplorer, constant.TabChat}
	}
	return view
}

func (s *pageService) chatView(state *entity.SessionState, extras viewExtras) *dto.ChatView {
	creds := state.ChatCredentials
	if creds.Provider == "" && len(s.chat.Providers()) > 0 {
		creds.Provider = s.chat.Providers()[0]
	}

	v := &dto.ChatView{
		Providers:  s.chat.Providers(),
		Provider:   creds.Provider,
		History:    s.mapper.ChatHistory(state.ChatHistory),
		LastAnswer: extras.lastAnswer,
		Error:      extras.chatError,
	}

	var missing *llm.MissingCredentialError
	err := creds.Validate()
	switch {
	case errors.As(err, &missing):
		v.Missing = missing.Fields
		v.Notice = missing.Error()
	case err != nil:
		v.Notice = err.Error()
	case state.Frame == nil:
		v.Notice = constant.ChatNoFrameMessage
	default:
		v.Ready = true
	}
	return v
}
