// Package notify delivers messages to the employee over push channels.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Channel identifies a delivery channel.
type Channel string

const (
	ChannelPushover Channel = "pushover"
	ChannelWebhook  Channel = "webhook"
	ChannelLog      Channel = "log"
)

// ChannelSender defines the interface for sending notifications.
type ChannelSender interface {
	Send(ctx context.Context, message string, metadata map[string]any) error
	Name() string
}

// Dispatcher routes notifications to registered channels.
type Dispatcher struct {
	channels map[Channel]ChannelSender
	logger   *slog.Logger
	mu       sync.RWMutex
}

// NewDispatcher creates a new notification dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		channels: make(map[Channel]ChannelSender),
		logger:   slog.Default(),
	}
}

// Register registers a channel sender.
func (d *Dispatcher) Register(channel Channel, sender ChannelSender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channels[channel] = sender
	d.logger.Info("registered notification channel", "channel", channel, "sender", sender.Name())
}

// Channels returns the registered channels in name order.
func (d *Dispatcher) Channels() []Channel {
	d.mu.RLock()
	defer d.mu.RUnlock()
	channels := make([]Channel, 0, len(d.channels))
	for channel := range d.channels {
		channels = append(channels, channel)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	return channels
}

// Send sends a notification through the specified channel.
func (d *Dispatcher) Send(ctx context.Context, channel Channel, message string, metadata map[string]any) error {
	d.mu.RLock()
	sender, ok := d.channels[channel]
	d.mu.RUnlock()

	if !ok {
		return fmt.Errorf("channel not registered: %s", channel)
	}
	return sender.Send(ctx, message, metadata)
}

// Broadcast sends a notification through all registered channels.
func (d *Dispatcher) Broadcast(ctx context.Context, message string, metadata map[string]any) []error {
	var errs []error
	for _, channel := range d.Channels() {
		if err := d.Send(ctx, channel, message, metadata); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", channel, err))
		}
	}
	return errs
}

// Notify broadcasts message and logs delivery failures instead of returning them.
func (d *Dispatcher) Notify(ctx context.Context, message string) {
	for _, err := range d.Broadcast(ctx, message, nil) {
		d.logger.Error("notification failed", "error", err)
	}
}

// Config selects the channels built by New.
type Config struct {
	Pushover PushoverConfig
	Webhook  WebhookConfig
}

// New builds a dispatcher with every configured channel. When neither
// Pushover nor a webhook is configured, messages go to the log.
func New(config Config) *Dispatcher {
	d := NewDispatcher()

	pushover := NewPushoverSender(config.Pushover)
	if pushover.Enabled() {
		d.Register(ChannelPushover, pushover)
	}
	if config.Webhook.URL != "" {
		d.Register(ChannelWebhook, NewWebhookSender(config.Webhook))
	}
	if len(d.Channels()) == 0 {
		d.Register(ChannelLog, NewLogSender(nil))
	}
	return d
}
