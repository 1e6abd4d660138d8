package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"gastos/internal/telegram"
)

type scriptedSource struct {
	batches [][]telegram.Update
	offsets []int64
	cancel  context.CancelFunc
}

func (s *scriptedSource) GetUpdates(ctx context.Context, offset int64, _ time.Duration) ([]telegram.Update, error) {
	s.offsets = append(s.offsets, offset)
	if len(s.batches) == 0 {
		s.cancel()
		return nil, ctx.Err()
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func TestPollerAdvancesOffset(t *testing.T) {
	h, sender := newTestHandler(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &scriptedSource{
		cancel: cancel,
		batches: [][]telegram.Update{
			{
				{UpdateID: 10, Message: groupMessage(1, "/help").Message},
				{UpdateID: 11, Message: groupMessage(1, "/help").Message},
			},
			{
				{UpdateID: 12, Message: groupMessage(1, "/help").Message},
			},
		},
	}

	p := NewPoller(source, h, h.logger, time.Second)
	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("run: %v", err)
	}

	if len(sender.messages) != 3 {
		t.Fatalf("handled %d updates", len(sender.messages))
	}
	want := []int64{0, 12, 13}
	if len(source.offsets) != len(want) {
		t.Fatalf("offsets: %v", source.offsets)
	}
	for i, o := range want {
		if source.offsets[i] != o {
			t.Fatalf("offsets: %v, want %v", source.offsets, want)
		}
	}
}
