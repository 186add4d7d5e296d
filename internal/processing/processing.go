// Package processing drives the "processing" overlay shown while the
// application waits on the chain or on the contact endpoint.
package processing

import (
	"context"
	"sync"
	"time"

	"github.com/rocketpool/rocketpool-web/internal/pubsub"
)

var (
	// Show displays the overlay with the given message.
	Show = pubsub.NewEvent[string]("rocketPool/Processing/show", "", "Display the processing overlay with a message")
	// Hide dismisses the overlay.
	Hide = pubsub.NewEvent[struct{}]("rocketPool/Processing/hide", "", "Dismiss the processing overlay")
)

// Scheduler runs f once after d.
type Scheduler interface {
	After(d time.Duration, f func())
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// HideAfter publishes Hide once d has elapsed. The publication does not
// inherit ctx cancellation since the request that scheduled it has usually
// completed by then.
func HideAfter(ctx context.Context, p pubsub.Publisher, s Scheduler, d time.Duration) {
	ctx = context.WithoutCancel(ctx)
	s.After(d, func() {
		pubsub.Publish(ctx, p, Hide, struct{}{})
	})
}

// State is the overlay as a view sees it.
type State struct {
	Visible bool   `json:"visible"`
	Message string `json:"message"`
}

// Overlay tracks the overlay state from Show and Hide publications.
type Overlay struct {
	mu    sync.RWMutex
	state State
	subs  []*pubsub.Subscription
}

// NewOverlay creates a hidden overlay.
func NewOverlay() *Overlay {
	return &Overlay{}
}

// Attach subscribes the overlay to Show and Hide on s.
func (o *Overlay) Attach(s pubsub.Subscriber) error {
	show, err := pubsub.Subscribe(s, Show, func(ctx context.Context, msg string) error {
		o.mu.Lock()
		o.state = State{Visible: true, Message: msg}
		o.mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}
	hide, err := pubsub.Subscribe(s, Hide, func(ctx context.Context, _ struct{}) error {
		o.mu.Lock()
		o.state = State{}
		o.mu.Unlock()
		return nil
	})
	if err != nil {
		show.Close()
		return err
	}

	o.mu.Lock()
	o.subs = append(o.subs, show, hide)
	o.mu.Unlock()
	return nil
}

// State returns the current overlay state.
func (o *Overlay) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Close detaches the overlay.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, sub := range o.subs {
		sub.Close()
	}
	o.subs = nil
}
