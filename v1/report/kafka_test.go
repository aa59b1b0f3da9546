package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/IBM/sarama/mocks"

	"github.com/mirkobrombin/go-spinlocks/v1/lock"
)

func TestKafkaSendsJSONResult(t *testing.T) {
	p := mocks.NewSyncProducer(t, nil)
	want := sample(lock.Yield, 400000)
	p.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		got, err := decode(val)
		if err != nil {
			return err
		}
		if got.RunID != want.RunID || got.Variant != lock.Yield {
			return fmt.Errorf("unexpected payload %s", val)
		}
		return nil
	})
	s := NewKafkaWithProducer(p, "")
	if err := s.Publish(context.Background(), want); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestKafkaSendFailure(t *testing.T) {
	p := mocks.NewSyncProducer(t, nil)
	boom := errors.New("broker down")
	p.ExpectSendMessageAndFail(boom)
	s := NewKafkaWithProducer(p, "topic")
	if err := s.Publish(context.Background(), sample(lock.CAS, 1)); !errors.Is(err, boom) {
		t.Fatalf("expected broker error, got %v", err)
	}
	_ = s.Close()
}

func TestKafkaCancelledContext(t *testing.T) {
	p := mocks.NewSyncProducer(t, nil)
	s := NewKafkaWithProducer(p, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Publish(ctx, sample(lock.CAS, 1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	_ = s.Close()
}
