// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package clipboard copies decrypted secrets to the system clipboard with as
// little residue in process memory as Go allows.
//
// Copying is best-effort. Once a secret is on the OS clipboard it is outside
// the process: clipboard history, sync and other applications can keep it.
package clipboard

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
)

// Guard writes secrets to a clipboard and optionally blanks it again after a
// delay. It never keeps the secret itself, only its SHA-256 digest.
type Guard struct {
	w          Writer
	clearAfter time.Duration
	log        *logger.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending chan struct{}
	digest  [sha256.Size]byte
}

// NewGuard returns a guard writing to w. A positive clearAfter schedules a
// clear after every copy; zero disables it.
func NewGuard(w Writer, clearAfter time.Duration, log *logger.Logger) *Guard {
	return &Guard{w: w, clearAfter: clearAfter, log: log}
}

// NewSystemGuard returns a guard for the OS clipboard.
func NewSystemGuard(clearAfter time.Duration, log *logger.Logger) *Guard {
	return NewGuard(systemClipboard{}, clearAfter, log)
}

// ClearAfter returns the configured auto-clear delay.
func (g *Guard) ClearAfter() time.Duration {
	return g.clearAfter
}

// CopySecure writes secret to the clipboard and wipes the caller's slice,
// whether the write succeeded or not. A pending clear from an earlier copy is
// replaced by a new one.
func (g *Guard) CopySecure(secret []byte) error {
	defer crypto.Wipe(secret)

	digest := sha256.Sum256(secret)
	if err := g.w.WriteAll(string(secret)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}

	if g.clearAfter > 0 {
		g.schedule(digest)
	}
	return nil
}

// Wait blocks until the pending clear has run or ctx is done. It returns
// immediately when nothing is scheduled.
func (g *Guard) Wait(ctx context.Context) error {
	g.mu.Lock()
	pending := g.pending
	g.mu.Unlock()

	if pending == nil {
		return nil
	}
	select {
	case <-pending:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush runs a pending clear right away instead of waiting for the delay.
// It is a no-op when nothing is scheduled.
func (g *Guard) Flush() {
	g.mu.Lock()
	if g.timer == nil || !g.timer.Stop() {
		g.mu.Unlock()
		return
	}
	digest, done := g.digest, g.pending
	g.timer = nil
	g.pending = nil
	g.mu.Unlock()

	g.clearIfUnchanged(digest)
	close(done)
}

// Close cancels a pending clear. The clipboard keeps its content.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cancelLocked()
}

func (g *Guard) schedule(digest [sha256.Size]byte) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cancelLocked()

	done := make(chan struct{})
	g.pending = done
	g.digest = digest
	g.timer = time.AfterFunc(g.clearAfter, func() {
		defer close(done)
		g.clearIfUnchanged(digest)

		g.mu.Lock()
		if g.pending == done {
			g.pending = nil
			g.timer = nil
		}
		g.mu.Unlock()
	})
}

func (g *Guard) cancelLocked() {
	if g.timer != nil && g.timer.Stop() {
		close(g.pending)
	}
	g.timer = nil
	g.pending = nil
}

// clearIfUnchanged blanks the clipboard unless the user has copied something
// else in the meantime.
func (g *Guard) clearIfUnchanged(digest [sha256.Size]byte) {
	current, err := g.w.ReadAll()
	if err != nil {
		g.log.Warn().Err(err).Msg("clipboard clear skipped: read failed")
		return
	}

	sum := sha256.Sum256([]byte(current))
	if subtle.ConstantTimeCompare(sum[:], digest[:]) != 1 {
		g.log.Debug().Msg("clipboard changed since copy, leaving it alone")
		return
	}

	if err = g.w.WriteAll(""); err != nil {
		g.log.Warn().Err(err).Msg("clipboard clear failed")
		return
	}
	g.log.Debug().Msg("clipboard cleared")
}
