package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/codeaid/internal/core/domain"
)

type stubAsk struct {
	calls int
	err   error
}

func (s *stubAsk) AnswerQuestion(_ context.Context, q string) (*domain.Answer, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Answer{ID: "m1", Answer: "answer to " + q, Question: q}, nil
}

type stubFeedback struct {
	rating int
	err    error
}

func (s *stubFeedback) Submit(_ context.Context, id string, rating int, _ string) (*domain.Feedback, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.rating = rating
	return &domain.Feedback{MessageID: id, Rating: rating}, nil
}

func (s *stubFeedback) List(context.Context, string) ([]domain.Feedback, error) {
	return nil, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func ask(t *testing.T, v *View, question string) messages.AnswerReceived {
	t.Helper()
	v.SetQuestion(question)
	_, cmd := v.Update(key("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.AnswerReceived)
	require.True(t, ok)
	return msg
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &stubAsk{}, nil)

	require.NotNil(t, v)
	assert.True(t, v.InputFocused())
	assert.False(t, v.Pending())
	assert.Empty(t, v.Turns())
	assert.Contains(t, v.View(), "Ask a question")
}

func TestView_SubmitAndAnswer(t *testing.T) {
	svc := &stubAsk{}
	v := NewView(nil, nil, svc, nil)
	v.SetDimensions(100, 30)

	msg := ask(t, v, "  what is X?  ")

	assert.True(t, v.Pending())
	require.Len(t, v.Turns(), 1)
	assert.Equal(t, "what is X?", v.Turns()[0].Question)
	assert.Equal(t, "what is X?", msg.Question)

	v.Update(msg)

	assert.False(t, v.Pending())
	require.NotNil(t, v.Turns()[0].Answer)
	assert.Contains(t, v.View(), "answer to what is X?")
	assert.Equal(t, 1, svc.calls)
}

func TestView_BlankQuestionIgnored(t *testing.T) {
	svc := &stubAsk{}
	v := NewView(nil, nil, svc, nil)

	v.SetQuestion("   ")
	_, cmd := v.Update(key("enter"))

	assert.Nil(t, cmd)
	assert.Empty(t, v.Turns())
}

func TestView_SecondQuestionWhilePendingIgnored(t *testing.T) {
	v := NewView(nil, nil, &stubAsk{}, nil)

	ask(t, v, "first")
	v.SetQuestion("second")
	_, cmd := v.Update(key("enter"))

	assert.Nil(t, cmd)
	assert.Len(t, v.Turns(), 1)
}

func TestView_AnswerError(t *testing.T) {
	v := NewView(nil, nil, &stubAsk{err: errors.New("provider down")}, nil)
	v.SetDimensions(100, 30)

	v.Update(ask(t, v, "q"))

	require.Len(t, v.Turns(), 1)
	assert.EqualError(t, v.Turns()[0].Err, "provider down")
	assert.Contains(t, v.View(), "provider down")
}

func TestView_NoAskService(t *testing.T) {
	v := NewView(nil, nil, nil, nil)

	v.SetQuestion("q")
	_, cmd := v.Update(key("enter"))

	assert.Nil(t, cmd)
	assert.Error(t, v.Err())
}

func TestView_FocusToggle(t *testing.T) {
	v := NewView(nil, nil, &stubAsk{}, nil)

	v.Update(key("tab"))
	assert.False(t, v.InputFocused())

	v.Update(key("i"))
	assert.True(t, v.InputFocused())
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v := NewView(nil, nil, &stubAsk{}, nil)

	_, cmd := v.Update(key("esc"))

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, msg.View)
}

func TestView_RateLastAnswer(t *testing.T) {
	fb := &stubFeedback{}
	v := NewView(nil, nil, &stubAsk{}, fb)
	v.SetDimensions(100, 30)
	v.Update(ask(t, v, "q"))
	v.Update(key("tab"))

	_, cmd := v.Update(key("5"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.FeedbackSubmitted)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, "m1", msg.MessageID)

	v.Update(msg)

	assert.Equal(t, 5, fb.rating)
	assert.Equal(t, 5, v.Turns()[0].Rating)
	assert.Contains(t, v.View(), "Rated 5/5")
}

func TestView_RateWithoutAnswerDoesNothing(t *testing.T) {
	v := NewView(nil, nil, &stubAsk{}, &stubFeedback{})
	v.Update(key("tab"))

	_, cmd := v.Update(key("3"))

	assert.Nil(t, cmd)
}

func TestView_RateWithoutFeedbackService(t *testing.T) {
	v := NewView(nil, nil, &stubAsk{}, nil)
	v.Update(ask(t, v, "q"))
	v.Update(key("tab"))

	_, cmd := v.Update(key("2"))

	assert.Nil(t, cmd)
	assert.ErrorIs(t, v.Err(), ErrNoFeedbackService)
}

func TestView_FeedbackError(t *testing.T) {
	v := NewView(nil, nil, &stubAsk{}, nil)

	v.Update(messages.FeedbackSubmitted{MessageID: "m1", Rating: 9, Err: errors.New("rating out of range")})

	assert.EqualError(t, v.Err(), "rating out of range")
}

func TestView_RendersSources(t *testing.T) {
	v := NewView(nil, nil, &stubAsk{}, nil)
	v.SetDimensions(100, 30)
	ask(t, v, "q")

	v.Update(messages.AnswerReceived{Answer: &domain.Answer{
		ID:     "m2",
		Answer: "see the guide",
		Sources: []domain.ScoredChunk{
			{Chunk: domain.Chunk{Position: 3}, Document: domain.Document{Filename: "guide.md"}, Score: 0.876},
		},
	}})

	out := v.View()
	assert.Contains(t, out, "[1] guide.md")
	assert.Contains(t, out, "chunk 3")
	assert.Contains(t, out, "0.88")
}
