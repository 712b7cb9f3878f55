package notify

import (
	"context"
)

// Dispatcher раскладывает каждое уведомление по всем каналам через Queue.
type Dispatcher struct {
	queue *Queue
	sinks []Sink
}

func NewDispatcher(queue *Queue, sinks ...Sink) *Dispatcher {
	return &Dispatcher{queue: queue, sinks: sinks}
}

// AddSink подключает канал доставки. Вызывать до начала обработки запросов.
func (d *Dispatcher) AddSink(s Sink) {
	d.sinks = append(d.sinks, s)
}

func (d *Dispatcher) Dispatch(_ context.Context, msgs ...Message) {
	for _, msg := range msgs {
		for _, sink := range d.sinks {
			msg, sink := msg, sink
			d.queue.Enqueue(sink.Name()+":"+string(msg.Kind), func(ctx context.Context) error {
				return sink.Deliver(ctx, msg)
			})
		}
	}
}
