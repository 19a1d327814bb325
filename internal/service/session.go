package service

import (
	"context"

	"property-assistant/internal/model"
)

// SessionRegistry stores conversation sessions by id
type SessionRegistry interface {
	Create() *model.Session
	Get(id string) (*model.Session, bool)
	Delete(id string) bool
	List() []*model.Session
	Count() int
}

// TurnLogger persists chat turns for analytics
type TurnLogger interface {
	LogTurn(ctx context.Context, turn model.TurnLog) error
}
