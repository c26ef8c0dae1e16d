// Package smtp implements email delivery over an ordered list of secure
// transport channels. The primary channel upgrades opportunistically to TLS
// on the submission port; the fallback uses implicit TLS from connection
// start. Channels are tried in order until one succeeds or all are
// exhausted.
package smtp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/heartmarshall/fittrack-notifier/internal/config"
	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

// Channel is one secure transport configuration.
type Channel struct {
	// Tag prefixes synthesized delivery identifiers ("starttls", "ssl").
	Tag string
	// Label names the channel in combined error details ("STARTTLS", "SSL").
	Label string
	Port  int
	// ImplicitTLS selects TLS from connection start instead of STARTTLS.
	ImplicitTLS bool
}

// Method is the channel descriptor reported in send outcomes,
// e.g. "STARTTLS_587".
func (c Channel) Method() string {
	return fmt.Sprintf("%s_%d", c.Label, c.Port)
}

// dialFunc performs one delivery attempt on one channel. Overridable in tests.
type dialFunc func(ctx context.Context, ch Channel, msg domain.OutboundMessage) error

// Sender delivers messages through the configured channel list. Both
// channels share one set of credentials. No timeout is exposed; each
// attempt blocks until the transport library's default timeout elapses.
type Sender struct {
	cfg      config.SMTPConfig
	log      *slog.Logger
	channels []Channel
	dial     dialFunc
	now      func() time.Time
}

// New creates a Sender with the standard channel order:
// STARTTLS on the submission port first, implicit TLS as fallback.
func New(cfg config.SMTPConfig, log *slog.Logger) *Sender {
	s := &Sender{
		cfg: cfg,
		log: log.With("component", "smtp"),
		channels: []Channel{
			{Tag: "starttls", Label: "STARTTLS", Port: cfg.StartTLSPort, ImplicitTLS: false},
			{Tag: "ssl", Label: "SSL", Port: cfg.SSLPort, ImplicitTLS: true},
		},
		now: time.Now,
	}
	s.dial = s.dialAndSend
	return s
}

// Send attempts delivery of msg, falling through the channel list.
// It never returns an error: the outcome carries either a synthesized
// delivery identifier or the concatenated per-channel failure detail.
func (s *Sender) Send(ctx context.Context, msg domain.OutboundMessage) domain.SendOutcome {
	var failures []string
	var lastMethod string

	for _, ch := range s.channels {
		lastMethod = ch.Method()

		err := s.dial(ctx, ch, msg)
		if err == nil {
			id := s.deliveryID(ch, msg.RecipientEmail)
			s.log.Info("message sent",
				slog.String("to", msg.RecipientEmail),
				slog.String("type", msg.Type.String()),
				slog.String("method", ch.Method()),
				slog.String("message_id", id),
			)
			return domain.SendOutcome{
				Success:   true,
				Method:    ch.Method(),
				MessageID: id,
			}
		}

		s.log.Warn("channel attempt failed",
			slog.String("to", msg.RecipientEmail),
			slog.String("channel", ch.Label),
			slog.String("error", err.Error()),
		)
		failures = append(failures, fmt.Sprintf("%s: %v", ch.Label, err))
	}

	detail := strings.Join(failures, ", ")
	s.log.Error("all channels exhausted",
		slog.String("to", msg.RecipientEmail),
		slog.String("error", detail),
	)
	return domain.SendOutcome{
		Success:     false,
		Method:      lastMethod,
		ErrorDetail: detail,
	}
}

// Ping verifies transport reachability by dialing and authenticating on
// each channel in order; the body is never sent. Returns the method of the
// first reachable channel, or the concatenated failure detail.
func (s *Sender) Ping(ctx context.Context) (string, error) {
	var failures []string

	for _, ch := range s.channels {
		client, err := s.newClient(ch)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", ch.Label, err))
			continue
		}

		if err := client.DialWithContext(ctx); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", ch.Label, err))
			continue
		}
		_ = client.Close()

		return ch.Method(), nil
	}

	return "", fmt.Errorf("%s", strings.Join(failures, ", "))
}

// deliveryID synthesizes a trace identifier from the channel tag, the
// current unix timestamp, and the local part of the recipient address.
// It is not a transport-assigned identifier.
func (s *Sender) deliveryID(ch Channel, recipient string) string {
	return fmt.Sprintf("%s-%d-%s", ch.Tag, s.now().Unix(), localPart(recipient))
}

func localPart(addr string) string {
	if i := strings.Index(addr, "@"); i >= 0 {
		return addr[:i]
	}
	return addr
}

func (s *Sender) newClient(ch Channel) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(ch.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}
	if ch.ImplicitTLS {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	return mail.NewClient(s.cfg.Host, opts...)
}

// dialAndSend performs a real delivery attempt over one channel.
func (s *Sender) dialAndSend(ctx context.Context, ch Channel, msg domain.OutboundMessage) error {
	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.Username); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := m.To(msg.RecipientEmail); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}

	client, err := s.newClient(ch)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return err
	}

	return nil
}
