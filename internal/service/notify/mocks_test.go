package notify

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

var _ recipientStore = &recipientStoreMock{}

type recipientStoreMock struct {
	ListEligibleFunc func(ctx context.Context, typ domain.NotificationType) ([]domain.Recipient, error)
	PingFunc         func(ctx context.Context) error

	calls struct {
		ListEligible []struct {
			Typ domain.NotificationType
		}
		Ping []struct{}
	}
	lockListEligible sync.RWMutex
	lockPing         sync.RWMutex
}

func (mock *recipientStoreMock) ListEligible(ctx context.Context, typ domain.NotificationType) ([]domain.Recipient, error) {
	if mock.ListEligibleFunc == nil {
		panic("recipientStoreMock.ListEligibleFunc: method is nil but recipientStore.ListEligible was just called")
	}
	callInfo := struct {
		Typ domain.NotificationType
	}{Typ: typ}
	mock.lockListEligible.Lock()
	mock.calls.ListEligible = append(mock.calls.ListEligible, callInfo)
	mock.lockListEligible.Unlock()
	return mock.ListEligibleFunc(ctx, typ)
}

func (mock *recipientStoreMock) ListEligibleCalls() []struct {
	Typ domain.NotificationType
} {
	mock.lockListEligible.RLock()
	calls := mock.calls.ListEligible
	mock.lockListEligible.RUnlock()
	return calls
}

func (mock *recipientStoreMock) Ping(ctx context.Context) error {
	if mock.PingFunc == nil {
		panic("recipientStoreMock.PingFunc: method is nil but recipientStore.Ping was just called")
	}
	mock.lockPing.Lock()
	mock.calls.Ping = append(mock.calls.Ping, struct{}{})
	mock.lockPing.Unlock()
	return mock.PingFunc(ctx)
}

func (mock *recipientStoreMock) PingCalls() []struct{} {
	mock.lockPing.RLock()
	calls := mock.calls.Ping
	mock.lockPing.RUnlock()
	return calls
}

var _ logStore = &logStoreMock{}

type logStoreMock struct {
	CreateFunc func(ctx context.Context, rec domain.EmailLogRecord) (int64, error)

	calls struct {
		Create []struct {
			Rec domain.EmailLogRecord
		}
	}
	lockCreate sync.RWMutex
}

func (mock *logStoreMock) Create(ctx context.Context, rec domain.EmailLogRecord) (int64, error) {
	if mock.CreateFunc == nil {
		panic("logStoreMock.CreateFunc: method is nil but logStore.Create was just called")
	}
	callInfo := struct {
		Rec domain.EmailLogRecord
	}{Rec: rec}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, rec)
}

func (mock *logStoreMock) CreateCalls() []struct {
	Rec domain.EmailLogRecord
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

var _ statStore = &statStoreMock{}

type statStoreMock struct {
	IncrementFunc func(ctx context.Context, day time.Time, typ domain.NotificationType, status domain.SendStatus) error

	calls struct {
		Increment []struct {
			Day    time.Time
			Typ    domain.NotificationType
			Status domain.SendStatus
		}
	}
	lockIncrement sync.RWMutex
}

func (mock *statStoreMock) Increment(ctx context.Context, day time.Time, typ domain.NotificationType, status domain.SendStatus) error {
	if mock.IncrementFunc == nil {
		panic("statStoreMock.IncrementFunc: method is nil but statStore.Increment was just called")
	}
	callInfo := struct {
		Day    time.Time
		Typ    domain.NotificationType
		Status domain.SendStatus
	}{Day: day, Typ: typ, Status: status}
	mock.lockIncrement.Lock()
	mock.calls.Increment = append(mock.calls.Increment, callInfo)
	mock.lockIncrement.Unlock()
	return mock.IncrementFunc(ctx, day, typ, status)
}

func (mock *statStoreMock) IncrementCalls() []struct {
	Day    time.Time
	Typ    domain.NotificationType
	Status domain.SendStatus
} {
	mock.lockIncrement.RLock()
	calls := mock.calls.Increment
	mock.lockIncrement.RUnlock()
	return calls
}

var _ transport = &transportMock{}

type transportMock struct {
	SendFunc func(ctx context.Context, msg domain.OutboundMessage) domain.SendOutcome
	PingFunc func(ctx context.Context) (string, error)

	calls struct {
		Send []struct {
			Msg domain.OutboundMessage
		}
		Ping []struct{}
	}
	lockSend sync.RWMutex
	lockPing sync.RWMutex
}

func (mock *transportMock) Send(ctx context.Context, msg domain.OutboundMessage) domain.SendOutcome {
	if mock.SendFunc == nil {
		panic("transportMock.SendFunc: method is nil but transport.Send was just called")
	}
	callInfo := struct {
		Msg domain.OutboundMessage
	}{Msg: msg}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, msg)
}

func (mock *transportMock) SendCalls() []struct {
	Msg domain.OutboundMessage
} {
	mock.lockSend.RLock()
	calls := mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}

func (mock *transportMock) Ping(ctx context.Context) (string, error) {
	if mock.PingFunc == nil {
		panic("transportMock.PingFunc: method is nil but transport.Ping was just called")
	}
	mock.lockPing.Lock()
	mock.calls.Ping = append(mock.calls.Ping, struct{}{})
	mock.lockPing.Unlock()
	return mock.PingFunc(ctx)
}

func (mock *transportMock) PingCalls() []struct{} {
	mock.lockPing.RLock()
	calls := mock.calls.Ping
	mock.lockPing.RUnlock()
	return calls
}
