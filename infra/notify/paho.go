package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	corenotify "github.com/yisrose35/daily-camp-schedular-sub006/core/notify"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/logger"
)

// Config defines the connection parameters for the plan-change publisher.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "camp-scheduler"
	}
	if c.Topic == "" {
		c.Topic = "camp/schedule/plan_changed"
	}
}

// PahoNotifier publishes plan-change announcements over MQTT so boards and
// displays refresh when the day is rebuilt.
type PahoNotifier struct {
	cli   paho.Client
	topic string
	qos   byte
	log   logger.Logger
}

// NewPahoNotifier connects to the broker and returns the notifier.
func NewPahoNotifier(cfg Config) (*PahoNotifier, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	cli := paho.NewClient(opts)
	tok := cli.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timeout to %s", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &PahoNotifier{cli: cli, topic: cfg.Topic, qos: cfg.QoS, log: logger.New("notify")}, nil
}

// PublishPlanChange broadcasts the change as JSON on the configured topic.
func (n *PahoNotifier) PublishPlanChange(ctx context.Context, change corenotify.PlanChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	tok := n.cli.Publish(n.topic, n.qos, false, payload)
	done := make(chan struct{})
	go func() {
		tok.Wait()
		close(done)
	}()
	select {
	case <-done:
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker.
func (n *PahoNotifier) Close() error {
	n.cli.Disconnect(250)
	return nil
}
