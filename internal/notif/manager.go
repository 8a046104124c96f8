package notif

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"estante/internal/common"
)

// NotificationManager fans notification events out to subscribed observers
// through a fixed worker pool.
type NotificationManager struct {
	observers    map[string]common.Observer
	eventChannel chan common.NotificationEvent
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.RWMutex
	wg           sync.WaitGroup
}

func NewNotificationManager(workerPoolSize int) *NotificationManager {
	ctx, cancel := context.WithCancel(context.Background())

	nm := &NotificationManager{
		observers:    make(map[string]common.Observer),
		eventChannel: make(chan common.NotificationEvent, 1000),
		ctx:          ctx,
		cancel:       cancel,
	}

	if workerPoolSize <= 0 {
		workerPoolSize = 1
	}
	for i := 0; i < workerPoolSize; i++ {
		nm.wg.Add(1)
		go nm.processEvents()
	}

	return nm
}

func (nm *NotificationManager) Subscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.observers[observer.Name()] = observer
	logrus.WithField("observer", observer.Name()).Info("observer subscribed")
}

func (nm *NotificationManager) Unsubscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	delete(nm.observers, observer.Name())
	logrus.WithField("observer", observer.Name()).Info("observer unsubscribed")
}

// Notify delivers the event to every observer synchronously. Observer
// failures are logged and do not stop the fan-out.
func (nm *NotificationManager) Notify(event common.NotificationEvent) {
	nm.mu.RLock()
	observers := make([]common.Observer, 0, len(nm.observers))
	for _, obs := range nm.observers {
		observers = append(observers, obs)
	}
	nm.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			logrus.WithFields(logrus.Fields{
				"observer": observer.Name(),
				"type":     event.Type,
			}).WithError(err).Warn("observer update failed")
		}
	}
}

// NotifyAsync queues the event for the worker pool, dropping it when the
// buffer is full.
func (nm *NotificationManager) NotifyAsync(event common.NotificationEvent) {
	select {
	case nm.eventChannel <- event:
	case <-nm.ctx.Done():
	default:
		logrus.WithField("type", event.Type).Warn("notification channel full, dropping event")
	}
}

func (nm *NotificationManager) processEvents() {
	defer nm.wg.Done()

	for {
		select {
		case event := <-nm.eventChannel:
			nm.Notify(event)
		case <-nm.ctx.Done():
			return
		}
	}
}

func (nm *NotificationManager) Shutdown() {
	nm.cancel()
	nm.wg.Wait()
	logrus.Info("notification manager shutdown complete")
}
