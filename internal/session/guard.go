// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session bounds how long a vault key stays resident.
//
// A [Guard] locks the vault after a period without user activity, as soon
// as the application loses focus, and whenever the user asks for it.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
)

// DefaultIdleTimeout is the idle window used when none is configured.
const DefaultIdleTimeout = 2 * time.Minute

// Locker is the lock action the guard drives. *vault.KeyManager satisfies it.
type Locker interface {
	Lock()
}

// Reason tells why the guard locked.
type Reason int

const (
	// ReasonIdle means the idle window elapsed without activity.
	ReasonIdle Reason = iota + 1
	// ReasonFocusLost means the application lost focus.
	ReasonFocusLost
	// ReasonManual means the user asked to lock.
	ReasonManual
	// ReasonShutdown means the guard was stopped or its context ended.
	ReasonShutdown
)

// String implements [fmt.Stringer].
func (r Reason) String() string {
	switch r {
	case ReasonIdle:
		return "idle"
	case ReasonFocusLost:
		return "focus_lost"
	case ReasonManual:
		return "manual"
	case ReasonShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Guard runs the idle timer for one Locker. Activity, FocusLost and LockNow
// are safe to call from any goroutine and never block.
type Guard struct {
	locker Locker
	idle   time.Duration
	log    *logger.Logger

	activity chan struct{}
	disarm   chan struct{}

	mu       sync.Mutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	handlers []func(Reason)
}

// NewGuard returns a stopped guard for locker. A non-positive idleTimeout
// selects DefaultIdleTimeout.
func NewGuard(locker Locker, idleTimeout time.Duration, log *logger.Logger) *Guard {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Guard{
		locker:   locker,
		idle:     idleTimeout,
		log:      log,
		activity: make(chan struct{}, 1),
		disarm:   make(chan struct{}, 1),
	}
}

// IdleTimeout returns the configured idle window.
func (g *Guard) IdleTimeout() time.Duration {
	return g.idle
}

// Start arms the idle timer with a full window and launches the timer
// goroutine. A running guard is stopped first. The guard locks and exits
// when ctx is cancelled or Stop is called.
func (g *Guard) Start(ctx context.Context) {
	g.Stop()

	g.mu.Lock()
	guardCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.wg.Add(1)
	g.mu.Unlock()

	// signals raised while stopped do not carry over
	drain(g.activity)
	drain(g.disarm)

	go g.run(guardCtx)
}

// Stop cancels the timer goroutine and waits for it to exit. Safe to call
// when the guard is not running.
func (g *Guard) Stop() {
	g.mu.Lock()
	cancel := g.cancel
	g.cancel = nil
	g.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	g.wg.Wait()
}

// Activity resets the idle window to its full length.
func (g *Guard) Activity() {
	select {
	case g.activity <- struct{}{}:
	default:
	}
}

// FocusLost locks immediately, whatever the timer state.
func (g *Guard) FocusLost() {
	g.lockNow(ReasonFocusLost)
}

// LockNow locks immediately on user request.
func (g *Guard) LockNow() {
	g.lockNow(ReasonManual)
}

// OnLock registers fn to be called after every lock the guard performs.
func (g *Guard) OnLock(fn func(Reason)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.handlers = append(g.handlers, fn)
}

func (g *Guard) run(ctx context.Context) {
	defer g.wg.Done()

	t := time.NewTimer(g.idle)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			g.lock(ReasonShutdown)
			return
		case <-g.activity:
			t.Reset(g.idle)
		case <-g.disarm:
			t.Stop()
		case <-t.C:
			g.lock(ReasonIdle)
		}
	}
}

func drain(ch chan struct{}) {
	select {
	case <-ch:
	default:
	}
}

func (g *Guard) lockNow(reason Reason) {
	g.lock(reason)

	select {
	case g.disarm <- struct{}{}:
	default:
	}
}

func (g *Guard) lock(reason Reason) {
	g.locker.Lock()

	g.log.Info().Str("reason", reason.String()).Msg("session locked")

	g.mu.Lock()
	handlers := g.handlers
	g.mu.Unlock()

	for _, fn := range handlers {
		fn(reason)
	}
}
