package services

import (
	"fmt"

	"lensbook-backend/internal/config"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// PushService sends APNs alerts to registered device tokens
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService creates a push service from config. Returns nil when push
// is disabled.
func NewPushService(cfg config.APNSConfig) (*PushService, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	cert, err := certificate.FromP12File(cfg.CertFile, cfg.CertPass)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if cfg.Sandbox {
		client = client.Development()
	} else {
		client = client.Production()
	}

	return &PushService{
		client: client,
		topic:  cfg.Topic,
	}, nil
}

// Notify sends one alert notification
func (s *PushService) Notify(deviceToken, title, body string) error {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload:     payload.NewPayload().AlertTitle(title).AlertBody(body).Sound("default"),
	}

	res, err := s.client.Push(notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("notification rejected: %s", res.Reason)
	}
	return nil
}
