package nats

import (
	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// ChangeSubscriber listens for any listing change and invokes a callback.
// The payload is deliberately ignored: the browse feed's contract is
// "something changed, discard accumulated state and re-query from page 0",
// not an incremental merge.
type ChangeSubscriber struct {
	conn   *nats.Conn
	sub    *nats.Subscription
	logger *logger.Logger
}

// NewChangeSubscriber subscribes to every listing subject on an
// established connection. onChange is called from the NATS delivery
// goroutine and must not block for long.
func NewChangeSubscriber(conn *nats.Conn, log *logger.Logger, onChange func(subject string)) (*ChangeSubscriber, error) {
	s := &ChangeSubscriber{
		conn:   conn,
		logger: log.Named("ChangeSubscriber"),
	}

	sub, err := conn.Subscribe(SubjectListingAll, func(msg *nats.Msg) {
		s.logger.Debug("Listing change event received", zap.String("subject", msg.Subject))
		onChange(msg.Subject)
	})
	if err != nil {
		return nil, err
	}
	s.sub = sub

	s.logger.Info("Subscribed to listing change events", zap.String("subject", SubjectListingAll))
	return s, nil
}

// Close unsubscribes from the change feed.
func (s *ChangeSubscriber) Close() {
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			s.logger.Warn("Failed to unsubscribe from listing change events", zap.Error(err))
		}
	}
}
