package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type eventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Service renders notification emails and hands them to the queue.
// Delivery is fire-and-forget: failures are logged and never propagate
// into the auth flow that triggered them.
type Service struct {
	publisher eventPublisher
	baseURL   string
	log       *zap.Logger
}

func NewService(publisher eventPublisher, baseURL string, log *zap.Logger) *Service {
	return &Service{publisher: publisher, baseURL: baseURL, log: log}
}

func (s *Service) SendEmailVerification(ctx context.Context, email, name, token string, ttl time.Duration) {
	body, err := renderTemplate(string(EventEmailVerification), templateData{
		Name:      name,
		Email:     email,
		BaseURL:   s.baseURL,
		Token:     token,
		ExpiresIn: humanizeTTL(ttl),
	})
	if err != nil {
		s.log.Error("Failed to render verification email", zap.Error(err))
		return
	}

	s.emit(ctx, Event{
		Type:      EventEmailVerification,
		Recipient: email,
		Subject:   "Confirm your email address",
		Body:      body,
	})
}

func (s *Service) SendPasswordReset(ctx context.Context, email, name, token string, ttl time.Duration) {
	body, err := renderTemplate(string(EventPasswordReset), templateData{
		Name:      name,
		Email:     email,
		BaseURL:   s.baseURL,
		Token:     token,
		ExpiresIn: humanizeTTL(ttl),
	})
	if err != nil {
		s.log.Error("Failed to render password reset email", zap.Error(err))
		return
	}

	s.emit(ctx, Event{
		Type:      EventPasswordReset,
		Recipient: email,
		Subject:   "Reset your password",
		Body:      body,
	})
}

func (s *Service) SendPasswordChanged(ctx context.Context, email, name, ipAddress, platform string) {
	body, err := renderTemplate(string(EventPasswordChanged), templateData{
		Name:      name,
		Email:     email,
		IPAddress: ipAddress,
		Platform:  platform,
		When:      time.Now().UTC().Format(time.RFC1123),
	})
	if err != nil {
		s.log.Error("Failed to render password changed email", zap.Error(err))
		return
	}

	s.emit(ctx, Event{
		Type:      EventPasswordChanged,
		Recipient: email,
		Subject:   "Your password was changed",
		Body:      body,
	})
}

func (s *Service) SendWelcome(ctx context.Context, email, name string) {
	body, err := renderTemplate(string(EventWelcome), templateData{
		Name:  name,
		Email: email,
	})
	if err != nil {
		s.log.Error("Failed to render welcome email", zap.Error(err))
		return
	}

	s.emit(ctx, Event{
		Type:      EventWelcome,
		Recipient: email,
		Subject:   "Welcome",
		Body:      body,
	})
}

func (s *Service) emit(ctx context.Context, event Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("Failed to publish notification event",
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}

func humanizeTTL(ttl time.Duration) string {
	if ttl >= 24*time.Hour {
		days := int(ttl.Hours()) / 24
		if days == 1 {
			return "24 hours"
		}
		return fmt.Sprintf("%d days", days)
	}
	if ttl >= time.Hour {
		return fmt.Sprintf("%d hours", int(ttl.Hours()))
	}
	return fmt.Sprintf("%d minutes", int(ttl.Minutes()))
}
