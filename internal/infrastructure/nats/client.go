package nats

import (
	"time"

	natslib "github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(url, name string, logger *zap.Logger) (*natslib.Conn, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	nc, err := natslib.Connect(url,
		natslib.Name(name),
		natslib.MaxReconnects(-1),
		natslib.ReconnectWait(2*time.Second),
		natslib.DisconnectErrHandler(func(_ *natslib.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		natslib.ReconnectHandler(func(c *natslib.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to nats", zap.String("url", nc.ConnectedUrl()))
	return nc, nil
}
