package usecases

import (
	"context"

	"github.com/orris-inc/newsdigest/internal/domain/digest"
	"github.com/orris-inc/newsdigest/internal/infrastructure/email"
	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

type DeliverDigestCommand struct {
	Document   *digest.Document
	Recipients []string
	DryRun     bool
}

type DeliverDigestResult struct {
	DryRun bool
	// Path is set for dry runs.
	Path   string
	Report *email.DeliveryReport
}

type DeliverDigestUseCase struct {
	sender MailSender
	writer LocalWriter
	logger logger.Interface
}

func NewDeliverDigestUseCase(
	sender MailSender,
	writer LocalWriter,
	logger logger.Interface,
) *DeliverDigestUseCase {
	return &DeliverDigestUseCase{
		sender: sender,
		writer: writer,
		logger: logger,
	}
}

// Execute writes the dry run file or mails every recipient. Individual
// recipient failures are reported; the run fails only when nobody got the
// digest.
func (uc *DeliverDigestUseCase) Execute(ctx context.Context, cmd DeliverDigestCommand) (*DeliverDigestResult, error) {
	if cmd.DryRun {
		path, err := uc.writer.Write(cmd.Document.HTML)
		if err != nil {
			uc.logger.Errorw("failed to write dry run output", "error", err)
			return nil, err
		}
		return &DeliverDigestResult{DryRun: true, Path: path}, nil
	}

	if uc.sender == nil {
		return nil, apperrors.NewInternalError("no mail sender configured")
	}

	report, err := uc.sender.Send(ctx, cmd.Recipients, email.Message{
		Subject: cmd.Document.Subject,
		HTML:    cmd.Document.HTML,
		Text:    cmd.Document.Text,
	})
	if err != nil {
		uc.logger.Errorw("digest delivery failed", "error", err)
		return nil, err
	}

	uc.logger.Infow("digest delivery finished",
		"delivered", len(report.Delivered),
		"failed", len(report.Failed),
	)

	if report.NoneDelivered() {
		return &DeliverDigestResult{Report: report}, apperrors.NewDeliveryError(
			"digest was not delivered to any recipient", report.Failed[0].Err)
	}

	return &DeliverDigestResult{Report: report}, nil
}
