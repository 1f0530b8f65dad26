package core

import (
	"context"
	"sync"

	"campustrace-backend-go/internal/models"
)

type fakeMatcher struct {
	calls      int
	subject    models.MatchCandidate
	candidates []models.MatchCandidate
	result     []models.MatchSuggestion
	err        error
}

func (f *fakeMatcher) Match(_ context.Context, subject models.MatchCandidate, candidates []models.MatchCandidate) ([]models.MatchSuggestion, error) {
	f.calls++
	f.subject, f.candidates = subject, candidates
	return f.result, f.err
}

type fakeImages struct {
	calls int
	uri   string
	err   error
}

func (f *fakeImages) Synthesize(context.Context, string, string, string) (string, error) {
	f.calls++
	return f.uri, f.err
}

type recordingEvents struct {
	mu     sync.Mutex
	events []models.ItemEvent
}

func (r *recordingEvents) Publish(_ context.Context, event models.ItemEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeAuth struct {
	created map[string]string // email -> uid
	revoked []string
	err     error
}

func newFakeAuth() *fakeAuth { return &fakeAuth{created: map[string]string{}} }

func (f *fakeAuth) CreateUser(_ context.Context, email, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, ok := f.created[email]; ok {
		return "", ErrEmailTaken
	}
	uid := "uid-" + email
	f.created[email] = uid
	return uid, nil
}

func (f *fakeAuth) RevokeRefreshTokens(_ context.Context, uid string) error {
	if f.err != nil {
		return f.err
	}
	f.revoked = append(f.revoked, uid)
	return nil
}

type recordingQueue struct {
	queue  string
	bodies [][]byte
	err    error
}

func (q *recordingQueue) Publish(_ context.Context, queueName string, body []byte) error {
	q.queue = queueName
	q.bodies = append(q.bodies, body)
	return q.err
}

func (q *recordingQueue) Consume(context.Context, string, func([]byte) error) error { return nil }

func (q *recordingQueue) Close() error { return nil }

type sentMail struct{ to, subject, body string }

type recordingMailer struct {
	sent []sentMail
	fail map[string]error
}

func (m *recordingMailer) Send(to, subject, body string) error {
	if err := m.fail[to]; err != nil {
		return err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}
