package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"data-explorer-be/internal/config"
	"data-explorer-be/internal/entity"
	"data-explorer-be/internal/pkg/logger"
	"data-explorer-be/pkg/events"
	"data-explorer-be/pkg/explorer"
	"data-explorer-be/pkg/frame"
)

type IDatasetService interface {
	// Upload replaces the session's active frame. A nil upload clears it.
	// Any error leaves the session without an active frame; a
	// *frame.EncodingError is the recoverable case the page reports inline.
	Upload(ctx context.Context, state *entity.SessionState, upload *frame.Upload, encoding string) error
	Explorer(state *entity.SessionState) (*explorer.Spec, error)
	AllowedTypes() []string
	EncodingOptions() []string
	DefaultEncoding() string
}

type datasetService struct {
	features  config.Features
	custom    *config.CustomConfig
	publisher events.Publisher
	log       logger.ILogger
}

func NewDatasetService(features config.Features, custom *config.CustomConfig, publisher events.Publisher, log logger.ILogger) IDatasetService {
	return &datasetService{
		features:  features,
		custom:    custom,
		publisher: publisher,
		log:       log,
	}
}

func (s *datasetService) AllowedTypes() []string {
	if s.features.Excel {
		return []string{string(frame.FormatCSV), string(frame.FormatExcel)}
	}
	return []string{string(frame.FormatCSV)}
}

// EncodingOptions is empty when the page does not offer an encoding choice.
func (s *datasetService) EncodingOptions() []string {
	if !s.features.EncodingSelect {
		return nil
	}
	return s.custom.Data.EncodingOptions
}

func (s *datasetService) DefaultEncoding() string {
	if !s.features.EncodingSelect {
		return frame.DefaultEncoding
	}
	return s.custom.Data.EncodingDefault
}

func (s *datasetService) Upload(ctx context.Context, state *entity.SessionState, upload *frame.Upload, encoding string) error {
	if upload == nil {
		state.Frame = nil
		state.Encoding = ""
		publish(ctx, s.publisher, s.log, events.New(events.TypeDatasetCleared, map[string]interface{}{
			"session_id": state.Id.String(),
		}))
		return nil
	}

	enc, err := s.resolveEncoding(encoding)
	if err != nil {
		return err
	}

	format, err := frame.ParseFormat(upload.Name)
	if err != nil {
		state.Frame = nil
		return err
	}
	if !slices.Contains(s.AllowedTypes(), string(format)) {
		state.Frame = nil
		return fmt.Errorf("%w: %s", frame.ErrUnsupportedFormat, format)
	}

	f, err := frame.Parse(*upload, enc)
	if err != nil {
		state.Frame = nil
		state.Encoding = ""

		var encErr *frame.EncodingError
		if errors.As(err, &encErr) {
			s.log.Warn("dataset", "upload rejected", map[string]interface{}{
				"session_id": state.Id.String(),
				"file":       upload.Name,
				"encoding":   enc,
			})
			publish(ctx, s.publisher, s.log, events.New(events.TypeDatasetRejected, map[string]interface{}{
				"session_id": state.Id.String(),
				"file":       upload.Name,
				"encoding":   enc,
			}))
			return err
		}
		return fmt.Errorf("failed to parse %s: %w", upload.Name, err)
	}

	state.Frame = f
	state.Encoding = enc
	rows, cols := f.Shape()

	s.log.Info("dataset", "upload parsed", map[string]interface{}{
		"session_id": state.Id.String(),
		"file":       f.Name,
		"rows":       rows,
		"columns":    cols,
	})
	publish(ctx, s.publisher, s.log, events.New(events.TypeDatasetUploaded, map[string]interface{}{
		"session_id": state.Id.String(),
		"file":       f.Name,
		"format":     string(f.Format),
		"rows":       rows,
		"columns":    cols,
	}))
	return nil
}

func (s *datasetService) resolveEncoding(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if !s.features.EncodingSelect || requested == "" {
		return s.DefaultEncoding(), nil
	}
	if !slices.Contains(s.custom.Data.EncodingOptions, requested) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEncoding, requested)
	}
	return requested, nil
}

func (s *datasetService) Explorer(state *entity.SessionState) (*explorer.Spec, error) {
	if state.Frame == nil {
		return nil, ErrNoActiveFrame
	}
	return explorer.NewRenderer(state.Frame).Spec(), nil
}
