// Package submission turns a completed conversation into a persisted record.
package submission

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/conversation"
	"github.com/spigell/talentscout/internal/logger"
)

// Record is the write-once snapshot of one completed candidate interaction.
type Record struct {
	ID                 string                          `json:"id" yaml:"id" mapstructure:"id"`
	Timestamp          int64                           `json:"timestamp" yaml:"timestamp" mapstructure:"timestamp"`
	Collected          map[string]string               `json:"collected" yaml:"collected" mapstructure:"collected"`
	GeneratedQuestions conversation.GeneratedQuestions `json:"generated_questions" yaml:"generated_questions" mapstructure:"generated_questions"`
	Answers            *string                         `json:"answers" yaml:"answers" mapstructure:"answers"`
}

// Store persists records. Write reports whether the record was saved.
type Store interface {
	Write(record *Record) bool
}

type Finalizer struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

func NewFinalizer(store Store, log *zap.Logger) *Finalizer {
	return &Finalizer{
		store:  store,
		now:    time.Now,
		logger: logger.WithFields(log),
	}
}

// Finalize builds a record from a session holding every required field and
// hands it to the store. It returns nil when the session is incomplete. The
// boolean reports whether the record was written. Each successful call
// appends a new record.
func (f *Finalizer) Finalize(s *conversation.Session) (*Record, bool) {
	log := f.logger.With(logger.SessionFields(s.ID, s.Stage.String())...)

	if !candidate.Complete(s.Collected) {
		missing, _ := candidate.NextMissing(s.Collected)
		log.Info("submission incomplete", zap.String("missing_field", missing))
		return nil, false
	}

	record := newRecord(s, f.now())

	if f.store == nil || !f.store.Write(record) {
		log.Warn("submission was not saved", zap.String("record_id", record.ID))
		return record, false
	}

	log.Info("submission saved", zap.String("record_id", record.ID))
	return record, true
}

func newRecord(s *conversation.Session, at time.Time) *Record {
	collected := make(map[string]string, len(s.Collected))
	for k, v := range s.Collected {
		collected[k] = v
	}

	questions := conversation.GeneratedQuestions{
		ByTech: append([]string(nil), s.LastGeneratedQuestions.ByTech...),
		Raw:    s.LastGeneratedQuestions.Raw,
	}

	record := &Record{
		ID:                 uuid.NewString(),
		Timestamp:          at.Unix(),
		Collected:          collected,
		GeneratedQuestions: questions,
	}

	if answers, ok := s.Collected[candidate.Answers]; ok {
		record.Answers = &answers
	}

	return record
}
