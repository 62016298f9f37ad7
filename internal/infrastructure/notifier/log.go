package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/productivity/usecase/notification"
)

// LogNotifier renders desktop notifications as structured log lines. It is the
// notifier used by the headless service.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("desktop")}
}

func (n *LogNotifier) Notify(_ context.Context, d notification.Desktop) error {
	n.logger.Info(d.Title,
		zap.String("body", d.Body),
		zap.String("icon", d.Icon),
		zap.Duration("timeout", d.Timeout),
	)
	return nil
}
