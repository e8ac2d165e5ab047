package realtime

import (
	"context"
	"errors"
	"time"

	"dues-app-go/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	minReconnectDelay = time.Second
	maxReconnectDelay = 30 * time.Second
)

type Publisher interface {
	Publish(change Change)
}

// Listener forwards Postgres NOTIFY payloads from one channel to a
// Publisher, reconnecting with backoff until its context ends.
type Listener struct {
	dsn     string
	channel string
	target  Publisher
	log     logger.Logger
}

func NewListener(dsn, channel string, target Publisher, log logger.Logger) *Listener {
	return &Listener{dsn: dsn, channel: channel, target: target, log: log}
}

func (l *Listener) Run(ctx context.Context) error {
	delay := minReconnectDelay
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.log.Warn("realtime.listen: connection lost", "channel", l.channel, "err", err, "retry_in", delay.String())

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return err
	}
	l.log.Info("realtime.listen: subscribed", "channel", l.channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		l.dispatch(notification.Payload)
	}
}

func (l *Listener) dispatch(payload string) {
	change, err := ParseChange(payload)
	if err != nil {
		l.log.Warn("realtime.listen: ignoring malformed notification", "err", err)
		return
	}
	l.target.Publish(change)
}
