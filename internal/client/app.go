package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/adapter"
	"github.com/MKhiriev/go-zk-vault/internal/clipboard"
	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/internal/session"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/internal/tui"
	"github.com/MKhiriev/go-zk-vault/internal/vault"
	"github.com/MKhiriev/go-zk-vault/models"
)

// App owns every long-lived component of one client process.
type App struct {
	vaults *service.VaultService
	store  store.VaultStore
	guard  *session.Guard
	clip   *clipboard.Guard
	tui    *tui.TUI
	log    *logger.Logger
}

// NewApp opens the configured store and wires the vault service, session
// guard and clipboard around it.
func NewApp(ctx context.Context, cfg *config.ClientConfig, info models.AppBuildInfo, log *logger.Logger) (*App, error) {
	st, err := NewVaultStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("create vault store: %w", err)
	}

	return newApp(st, clipboard.NewSystemGuard(cfg.App.ClipboardClearAfter, log.Component("clipboard")), cfg, info, log), nil
}

func newApp(st store.VaultStore, clip *clipboard.Guard, cfg *config.ClientConfig, info models.AppBuildInfo, log *logger.Logger) *App {
	gen := crypto.NewSecretGenerator()
	codec := crypto.NewEnvelopeCodec(gen)
	keysLog := log.Component("keys")
	keys := vault.NewKeyManager(gen, codec, cfg.App.KDF, keysLog, vault.WithLegacyKeyWrap(cfg.App.LegacyKeyWrap))

	keys.OnStateChange(func(s vault.State) {
		keysLog.Debug().Str("state", s.String()).Msg("vault state changed")
	})

	vaults := service.NewVaultService(st, keys, codec, gen, clip, log.Component("service"))
	guard := session.NewGuard(vaults, cfg.App.IdleTimeout, log.Component("session"))

	return &App{
		vaults: vaults,
		store:  st,
		guard:  guard,
		clip:   clip,
		tui:    tui.New(vaults, guard, info, log.Component("tui")),
		log:    log,
	}
}

// NewVaultStore returns the storage backend selected by cfg: the remote
// vault server for "remote", a local store otherwise.
func NewVaultStore(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (store.VaultStore, error) {
	if cfg.Storage.Backend == config.BackendRemote {
		return adapter.NewHTTPVaultStore(cfg.Adapter, log)
	}
	return store.NewVaultStore(ctx, cfg.Storage, log)
}

// Vaults returns the vault service.
func (a *App) Vaults() *service.VaultService {
	return a.vaults
}

// Run opens the interactive session for vaultID. An empty vaultID selects
// the only vault in the store.
func (a *App) Run(ctx context.Context, vaultID string) error {
	summary, err := a.ResolveVault(ctx, vaultID)
	if err != nil {
		return err
	}
	return a.tui.Run(ctx, summary.ID, summary.Name)
}

// WaitClipboard blocks until a pending clipboard clear has run or ctx ends.
func (a *App) WaitClipboard(ctx context.Context) error {
	return a.clip.Wait(ctx)
}

// ClipboardClearAfter reports the configured clipboard clear delay.
func (a *App) ClipboardClearAfter() time.Duration {
	return a.clip.ClearAfter()
}

// Close locks the vault, cancels a pending clipboard clear and closes the
// store.
func (a *App) Close() error {
	a.guard.Stop()
	a.vaults.Lock()
	a.clip.Close()

	if err := a.store.Close(); err != nil {
		a.log.Err(err).Str("func", "client.Close").Msg("error closing vault store")
		return err
	}
	return nil
}

// ErrVaultAmbiguous is returned when no vault was named and the store holds
// more than one.
var ErrVaultAmbiguous = errors.New("more than one vault exists, pick one with --vault")

// ResolveVault maps a vault ID or name onto its summary. An empty ref
// selects the only vault in the store.
func (a *App) ResolveVault(ctx context.Context, ref string) (models.VaultSummary, error) {
	vaults, err := a.vaults.ListVaults(ctx)
	if err != nil {
		return models.VaultSummary{}, err
	}

	if ref == "" {
		switch len(vaults) {
		case 0:
			return models.VaultSummary{}, store.ErrVaultNotFound
		case 1:
			return vaults[0], nil
		default:
			return models.VaultSummary{}, ErrVaultAmbiguous
		}
	}

	for _, v := range vaults {
		if v.ID == ref || v.Name == ref {
			return v, nil
		}
	}
	return models.VaultSummary{}, store.ErrVaultNotFound
}

// FlushClipboard runs a pending clipboard clear right away.
func (a *App) FlushClipboard() {
	a.clip.Flush()
}
