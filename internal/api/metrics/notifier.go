package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/medicapp/clinic-backend/internal/core/ports"
)

type instrumentedNotifier struct {
	next ports.Notifier
}

// InstrumentNotifier records delivery counts and latency around next.
func InstrumentNotifier(next ports.Notifier) ports.Notifier {
	return instrumentedNotifier{next: next}
}

func (n instrumentedNotifier) Send(ctx context.Context, to, subject, body string) error {
	timer := prometheus.NewTimer(NotificationDuration)
	err := n.next.Send(ctx, to, subject, body)
	timer.ObserveDuration()

	NotificationsTotal.WithLabelValues(Result(err)).Inc()
	return err
}
