package submission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/conversation"
)

type memoryStore struct {
	records []*Record
	fail    bool
}

func (m *memoryStore) Write(record *Record) bool {
	if m.fail {
		return false
	}
	m.records = append(m.records, record)
	return true
}

func completeSession() *conversation.Session {
	s := conversation.NewSession()
	s.Stage = conversation.StageTechQuestions
	for _, name := range candidate.Required() {
		s.Collected[name] = "value of " + name
	}
	s.LastGeneratedQuestions = conversation.GeneratedQuestions{
		ByTech: []string{"Go", "PostgreSQL"},
		Raw:    "**Go Questions**",
	}
	return s
}

func newTestFinalizer(store Store) *Finalizer {
	f := NewFinalizer(store, zap.NewNop())
	f.now = func() time.Time { return time.Unix(1700000000, 0) }
	return f
}

func TestFinalizeIncompleteSession(t *testing.T) {
	store := &memoryStore{}
	f := newTestFinalizer(store)

	s := completeSession()
	delete(s.Collected, candidate.Phone)

	record, ok := f.Finalize(s)

	assert.Nil(t, record)
	assert.False(t, ok)
	assert.Empty(t, store.records)
}

func TestFinalizeCompleteSession(t *testing.T) {
	store := &memoryStore{}
	f := newTestFinalizer(store)
	s := completeSession()

	record, ok := f.Finalize(s)

	require.True(t, ok)
	require.NotNil(t, record)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, int64(1700000000), record.Timestamp)
	assert.Len(t, record.Collected, len(candidate.Required()))
	assert.Equal(t, s.LastGeneratedQuestions, record.GeneratedQuestions)
	assert.Nil(t, record.Answers)
	assert.Equal(t, []*Record{record}, store.records)
}

func TestFinalizeCopiesSessionState(t *testing.T) {
	f := newTestFinalizer(&memoryStore{})
	s := completeSession()

	record, ok := f.Finalize(s)
	require.True(t, ok)

	s.Collected[candidate.FullName] = "changed"
	s.LastGeneratedQuestions.ByTech[0] = "Rust"

	assert.Equal(t, "value of full_name", record.Collected[candidate.FullName])
	assert.Equal(t, "Go", record.GeneratedQuestions.ByTech[0])
}

func TestFinalizeIncludesAnswers(t *testing.T) {
	f := newTestFinalizer(&memoryStore{})
	s := completeSession()
	s.Collected[candidate.Answers] = "my answers"

	record, ok := f.Finalize(s)

	require.True(t, ok)
	require.NotNil(t, record.Answers)
	assert.Equal(t, "my answers", *record.Answers)
}

func TestFinalizeTwiceAppends(t *testing.T) {
	store := &memoryStore{}
	f := newTestFinalizer(store)
	s := completeSession()

	first, ok := f.Finalize(s)
	require.True(t, ok)
	second, ok := f.Finalize(s)
	require.True(t, ok)

	require.Len(t, store.records, 2)
	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestFinalizeStoreFailure(t *testing.T) {
	f := newTestFinalizer(&memoryStore{fail: true})

	record, ok := f.Finalize(completeSession())

	assert.False(t, ok)
	assert.NotNil(t, record)
}

func TestFinalizeWithoutStore(t *testing.T) {
	f := newTestFinalizer(nil)

	_, ok := f.Finalize(completeSession())

	assert.False(t, ok)
}
