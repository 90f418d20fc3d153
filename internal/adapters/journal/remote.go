package journal

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// StreamTripAfter is the number of consecutive publish failures that
	// suspend a stream.
	StreamTripAfter = 3
	// StreamCooldown is how long a suspended stream drops lines before it
	// tries to publish again.
	StreamCooldown = 30 * time.Second

	publishTimeout = 5 * time.Second
)

// Publisher delivers one journal line to a message transport.
type Publisher interface {
	Publish(line []byte) error
	Close() error
}

// Stream publishes each journal line through a Publisher. Each failed publish
// is returned to the caller until StreamTripAfter consecutive failures
// suspend the stream. For StreamCooldown after that, lines are dropped
// without error.
type Stream struct {
	pub     Publisher
	breaker *gobreaker.CircuitBreaker
}

// NewStream wraps pub in a circuit breaker named after the transport.
func NewStream(name string, pub Publisher) *Stream {
	return &Stream{
		pub: pub,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "journal-" + name,
			MaxRequests: 1,
			Timeout:     StreamCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= StreamTripAfter
			},
		}),
	}
}

// Write publishes p without its trailing newline.
func (s *Stream) Write(p []byte) (int, error) {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.pub.Publish(bytes.TrimRight(p, "\n"))
	})
	switch {
	case err == nil:
		return len(p), nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return len(p), nil
	case s.breaker.State() == gobreaker.StateOpen:
		return 0, zerr.With(zerr.Wrap(err, domain.ErrJournalStreamSuspended.Error()), "cooldown", StreamCooldown.String())
	default:
		return 0, err
	}
}

// Close closes the underlying transport.
func (s *Stream) Close() error {
	return s.pub.Close()
}

// WithStream attaches s as a remote sink and hands its lifetime to the journal.
func WithStream(s *Stream) Option {
	return func(j *Journal) {
		WithRemote(s)(j)
		j.closers = append(j.closers, s)
	}
}

type natsPublisher struct {
	conn    *nats.Conn
	subject string
}

// DialNATS connects to the NATS server at url and streams lines to subject.
func DialNATS(url, subject string) (*Stream, error) {
	conn, err := nats.Connect(url,
		nats.Name("tend-journal"),
		nats.Timeout(publishTimeout),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrJournalOpenFailed.Error()), "url", url)
	}
	return NewStream("nats", &natsPublisher{conn: conn, subject: subject}), nil
}

func (p *natsPublisher) Publish(line []byte) error {
	return p.conn.Publish(p.subject, line)
}

// Close flushes pending messages and closes the connection.
func (p *natsPublisher) Close() error {
	err := p.conn.Drain()
	if err != nil {
		p.conn.Close()
	}
	return err
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafka streams lines to topic on the given brokers. Connections are
// opened on the first publish.
func NewKafka(brokers []string, topic string) *Stream {
	return NewStream("kafka", &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchSize:    1,
			MaxAttempts:  1,
			WriteTimeout: publishTimeout,
			RequiredAcks: kafka.RequireOne,
		},
	})
}

func (p *kafkaPublisher) Publish(line []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return p.writer.WriteMessages(ctx, kafka.Message{Value: bytes.Clone(line), Time: time.Now()})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
