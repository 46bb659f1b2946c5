package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/newsdigest/internal/domain/digest"
	"github.com/orris-inc/newsdigest/internal/infrastructure/email"
	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
)

var testDocument = &digest.Document{
	Subject: "Digest 05.03.2024",
	HTML:    "<h1>Digest</h1>",
	Text:    "Digest",
}

func TestDeliverDigestUseCase_Execute_DryRun(t *testing.T) {
	sender := new(mockMailSender)
	writer := new(mockLocalWriter)
	writer.On("Write", "<h1>Digest</h1>").Return("digest_dry_run.html", nil).Once()

	result, err := NewDeliverDigestUseCase(sender, writer, newMockLogger()).Execute(context.Background(),
		DeliverDigestCommand{Document: testDocument, Recipients: []string{"a@example.com"}, DryRun: true})

	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, "digest_dry_run.html", result.Path)
	writer.AssertExpectations(t)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliverDigestUseCase_Execute_PartialFailure(t *testing.T) {
	sender := new(mockMailSender)
	writer := new(mockLocalWriter)
	recipients := []string{"bad@example.com", "good@example.com"}
	report := &email.DeliveryReport{
		Delivered: []string{"good@example.com"},
		Failed:    []email.RecipientFailure{{Recipient: "bad@example.com", Err: errors.New("550 rejected")}},
	}
	sender.On("Send", mock.Anything, recipients, email.Message{
		Subject: "Digest 05.03.2024",
		HTML:    "<h1>Digest</h1>",
		Text:    "Digest",
	}).Return(report, nil).Once()

	result, err := NewDeliverDigestUseCase(sender, writer, newMockLogger()).Execute(context.Background(),
		DeliverDigestCommand{Document: testDocument, Recipients: recipients})

	require.NoError(t, err)
	assert.Same(t, report, result.Report)
	sender.AssertExpectations(t)
	writer.AssertNotCalled(t, "Write", mock.Anything)
}

func TestDeliverDigestUseCase_Execute_NobodyReceived(t *testing.T) {
	sender := new(mockMailSender)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(&email.DeliveryReport{
		Failed: []email.RecipientFailure{{Recipient: "a@example.com", Err: errors.New("550 rejected")}},
	}, nil)

	result, err := NewDeliverDigestUseCase(sender, new(mockLocalWriter), newMockLogger()).Execute(context.Background(),
		DeliverDigestCommand{Document: testDocument, Recipients: []string{"a@example.com"}})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDelivery))
	require.NotNil(t, result)
	assert.Len(t, result.Report.Failed, 1)
}

func TestDeliverDigestUseCase_Execute_SessionFailure(t *testing.T) {
	sender := new(mockMailSender)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(&email.DeliveryReport{}, apperrors.NewDeliveryError("failed to connect to smtp server", errors.New("535 auth")))

	_, err := NewDeliverDigestUseCase(sender, new(mockLocalWriter), newMockLogger()).Execute(context.Background(),
		DeliverDigestCommand{Document: testDocument, Recipients: []string{"a@example.com"}})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDelivery))
}
