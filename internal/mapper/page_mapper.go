package mapper

import (
	"fmt"

	"data-explorer-be/internal/constant"
	"data-explorer-be/internal/dto"
	"data-explorer-be/internal/entity"
	"data-explorer-be/pkg/frame"
)

type PageMapper struct {
	maxLoginAttempts int
}

func NewPageMapper(maxLoginAttempts int) *PageMapper {
	return &PageMapper{maxLoginAttempts: maxLoginAttempts}
}

func (m *PageMapper) AuthView(state *entity.SessionState) *dto.AuthView {
	if state == nil {
		return nil
	}

	v := &dto.AuthView{
		Status:       string(state.AuthStatus),
		AttemptsLeft: max(m.maxLoginAttempts-state.FailedAttempts, 0),
	}
	switch state.AuthStatus {
	case entity.AuthStatusAuthenticated:
		v.Message = fmt.Sprintf(constant.AuthWelcomeMessage, state.Name)
		v.Username = state.Username
		v.Name = state.Name
		v.ShowLogout = true
	case entity.AuthStatusFailed:
		v.Message = constant.AuthFailedMessage
	case entity.AuthStatusLocked:
		v.Message = constant.AuthLockedMessage
	default:
		v.Message = constant.AuthPromptMessage
	}
	return v
}

func (m *PageMapper) DatasetView(f *frame.Frame) *dto.DatasetView {
	if f == nil {
		return nil
	}

	rows, cols := f.Shape()
	return &dto.DatasetView{
		Name:    f.Name,
		Format:  string(f.Format),
		Rows:    rows,
		Columns: cols,
		Fields:  f.Columns,
	}
}

// ChatHistory never returns nil so the history always serialises as a list.
func (m *PageMapper) ChatHistory(records []entity.ChatRecord) []dto.ChatRecordDTO {
	out := make([]dto.ChatRecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, dto.ChatRecordDTO{
			Role:      string(r.Role),
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}
