package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/investplatform/admin-backend/internal/models"
)

type NotificationSource interface {
	ListAdminCreatedSince(ctx context.Context, since time.Time, limit int) ([]models.AdminNotification, error)
}

// Notifier polls new operator alerts and pushes them to the connected
// clients' channels.
type Notifier struct {
	repo         NotificationSource
	hub          *Hub
	pollInterval time.Duration
	lastSeen     time.Time
}

func NewNotifier(repo NotificationSource, hub *Hub, pollInterval time.Duration) *Notifier {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Notifier{repo: repo, hub: hub, pollInterval: pollInterval, lastSeen: time.Now().UTC()}
}

func (n *Notifier) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := n.tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (n *Notifier) tick(ctx context.Context) error {
	alerts, err := n.repo.ListAdminCreatedSince(ctx, n.lastSeen, 100)
	if err != nil {
		return err
	}
	for _, alert := range alerts {
		if alert.CreatedAt.After(n.lastSeen) {
			n.lastSeen = alert.CreatedAt
		}
		payload, _ := json.Marshal(map[string]any{
			"event": "notification",
			"data":  alert,
		})
		if alert.AdminID != nil {
			n.hub.Publish(ChannelOperator+":"+*alert.AdminID, payload)
		} else {
			n.hub.Publish(ChannelBroadcast, payload)
		}
		if alert.Resource != "" {
			n.hub.Publish(ChannelResource+":"+alert.Resource, payload)
		}
	}
	return nil
}
