package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/orris-inc/newsdigest/internal/domain/digest"
	"github.com/orris-inc/newsdigest/internal/infrastructure/email"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

type mockStoryClient struct {
	mock.Mock
}

func (m *mockStoryClient) TopStories(ctx context.Context, section string, limit int) ([]digest.Story, error) {
	args := m.Called(ctx, section, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]digest.Story), args.Error(1)
}

type mockPacer struct {
	mock.Mock
}

func (m *mockPacer) Wait(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockTranslator struct {
	mock.Mock
}

func (m *mockTranslator) Translate(ctx context.Context, texts []string, target string) ([]string, error) {
	args := m.Called(ctx, texts, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockMailSender struct {
	mock.Mock
}

func (m *mockMailSender) Send(ctx context.Context, recipients []string, msg email.Message) (*email.DeliveryReport, error) {
	args := m.Called(ctx, recipients, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*email.DeliveryReport), args.Error(1)
}

type mockLocalWriter struct {
	mock.Mock
}

func (m *mockLocalWriter) Write(html string) (string, error) {
	args := m.Called(html)
	return args.String(0), args.Error(1)
}

type mockLogger struct {
	mock.Mock
}

// newMockLogger accepts any log call.
func newMockLogger() *mockLogger {
	l := new(mockLogger)
	l.On("Debugw", mock.Anything, mock.Anything).Maybe().Return()
	l.On("Infow", mock.Anything, mock.Anything).Maybe().Return()
	l.On("Warnw", mock.Anything, mock.Anything).Maybe().Return()
	l.On("Errorw", mock.Anything, mock.Anything).Maybe().Return()
	return l
}

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Infow(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) With(keysAndValues ...interface{}) logger.Interface {
	args := m.Called(keysAndValues)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Interface)
}

func (m *mockLogger) Named(name string) logger.Interface {
	args := m.Called(name)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Interface)
}
