package config

import (
	"time"

	"github.com/nats-io/nats.go"
)

func NewNATSConn(cfg *Config) (*nats.Conn, error) {
	if cfg.NATSURL == "" {
		return nil, nil
	}

	return nats.Connect(cfg.NATSURL,
		nats.Name("gameshelf-notifications"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
}
