package kafka

import (
	"github.com/twmb/franz-go/pkg/kgo"
)

// New creates a Kafka producer client. Returns nil if no seed brokers are
// configured, which callers treat as alert publishing disabled.
func New(seeds []string) (*kgo.Client, error) {
	if len(seeds) == 0 {
		return nil, nil
	}
	return kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
}
