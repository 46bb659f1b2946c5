// Package email delivers the rendered digest over SMTP or to a local file.
package email

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"

	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
	"github.com/orris-inc/newsdigest/internal/shared/utils"
)

const DefaultSendsPerMinute = 30

type SMTPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	FromAddress    string
	FromName       string
	SendsPerMinute int
}

// Message is the content sent to every recipient.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Dialer opens an authenticated SMTP session. *gomail.Dialer satisfies it.
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}

// RecipientFailure records why one recipient did not get the digest.
type RecipientFailure struct {
	Recipient string
	Err       error
}

// DeliveryReport lists per-recipient outcomes in recipient order.
type DeliveryReport struct {
	Delivered []string
	Failed    []RecipientFailure
}

func (r *DeliveryReport) HasFailures() bool {
	return len(r.Failed) > 0
}

// NoneDelivered is true when there were recipients and none received the digest.
func (r *DeliveryReport) NoneDelivered() bool {
	return len(r.Delivered) == 0 && len(r.Failed) > 0
}

type SMTPSender struct {
	config  SMTPConfig
	dialer  Dialer
	limiter *rate.Limiter
	logger  logger.Interface
}

func NewSMTPSender(config SMTPConfig, logger logger.Interface) *SMTPSender {
	perMinute := config.SendsPerMinute
	if perMinute <= 0 {
		perMinute = DefaultSendsPerMinute
	}

	return &SMTPSender{
		config:  config,
		dialer:  gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		logger:  logger,
	}
}

// WithDialer replaces the SMTP dialer, mainly for tests.
func (s *SMTPSender) WithDialer(d Dialer) *SMTPSender {
	s.dialer = d
	return s
}

// Send delivers msg to each recipient separately over one session. A failed
// recipient is recorded and the session is re-established before the next
// one. The returned error is non-nil only when no session could be opened or
// ctx ended.
func (s *SMTPSender) Send(ctx context.Context, recipients []string, msg Message) (*DeliveryReport, error) {
	report := &DeliveryReport{}
	if len(recipients) == 0 {
		return report, nil
	}

	sc, err := s.dialer.Dial()
	if err != nil {
		return report, apperrors.NewDeliveryError("failed to connect to smtp server", err,
			fmt.Sprintf("%s:%d", s.config.Host, s.config.Port))
	}
	defer func() {
		if sc != nil {
			sc.Close()
		}
	}()

	for i, to := range recipients {
		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}

		if sc == nil {
			sc, err = s.dialer.Dial()
			if err != nil {
				s.logger.Errorw("failed to reconnect to smtp server", "error", err)
				for _, rest := range recipients[i:] {
					report.Failed = append(report.Failed, RecipientFailure{Recipient: rest, Err: err})
				}
				return report, nil
			}
		}

		if err := gomail.Send(sc, s.buildMessage(to, msg)); err != nil {
			s.logger.Errorw("failed to send digest",
				"recipient", utils.MaskEmail(to),
				"error", err,
			)
			report.Failed = append(report.Failed, RecipientFailure{Recipient: to, Err: err})
			sc.Close()
			sc = nil
			continue
		}

		s.logger.Infow("digest sent", "recipient", utils.MaskEmail(to))
		report.Delivered = append(report.Delivered, to)
	}

	return report, nil
}

func (s *SMTPSender) buildMessage(to string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}
	return m
}
