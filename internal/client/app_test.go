package client

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/clipboard"
	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/mock"
	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/internal/utils"
	"github.com/MKhiriev/go-zk-vault/internal/vault"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig(path string) *config.ClientConfig {
	return &config.ClientConfig{
		App: config.ClientApp{
			IdleTimeout:         time.Minute,
			ClipboardClearAfter: 0,
			KDF:                 crypto.KDFParams{Algorithm: crypto.AlgorithmPBKDF2SHA256, Iterations: 1000},
		},
		Storage: config.ClientStorage{
			Backend: config.BackendFile,
			Files:   config.ClientFiles{Path: path},
		},
	}
}

func newTestApp(t *testing.T, w clipboard.Writer) *App {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vaults.json")
	st, err := store.NewLocalStorage(path, utils.NewUUIDGenerator())
	require.NoError(t, err)

	a := newApp(st, clipboard.NewGuard(w, 0, logger.Nop()), testConfig(path), models.AppBuildInfo{}, logger.Nop())
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// ── NewVaultStore ────────────────────────────────────────────────────────────

func TestNewVaultStore_File(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "vaults.json"))

	st, err := NewVaultStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.NoError(t, st.Close())
}

func TestNewVaultStore_Remote(t *testing.T) {
	cfg := testConfig("")
	cfg.Storage.Backend = config.BackendRemote
	cfg.Adapter = config.ClientAdapter{Address: "localhost:8080", Token: "t", RequestTimeout: time.Second}

	st, err := NewVaultStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, st)
}

func TestNewVaultStore_RemoteWithoutAddress(t *testing.T) {
	cfg := testConfig("")
	cfg.Storage.Backend = config.BackendRemote

	_, err := NewVaultStore(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
}

func TestNewVaultStore_UnknownBackend(t *testing.T) {
	cfg := testConfig("")
	cfg.Storage.Backend = "tape"

	_, err := NewVaultStore(context.Background(), cfg, logger.Nop())
	require.ErrorIs(t, err, store.ErrUnknownBackend)
}

// ── App ──────────────────────────────────────────────────────────────────────

func TestApp_VaultLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mock.NewMockWriter(ctrl)
	a := newTestApp(t, w)
	ctx := context.Background()
	svc := a.Vaults()

	vaultID, err := svc.CreateVault(ctx, "personal", "correct-horse")
	require.NoError(t, err)

	website := "gmail.com"
	itemID, err := svc.AddItem(ctx, models.Item{Label: "Gmail", Website: &website, Password: "p@ss"})
	require.NoError(t, err)

	svc.Lock()
	_, err = svc.ListItems(ctx)
	require.ErrorIs(t, err, vault.ErrVaultLocked)

	require.ErrorIs(t, svc.Unlock(ctx, vaultID, "wrong"), vault.ErrUnlockFailed)
	require.NoError(t, svc.Unlock(ctx, vaultID, "correct-horse"))

	views, err := svc.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, itemID, views[0].ID)
	assert.Equal(t, "Gmail", views[0].Label)
	assert.Nil(t, views[0].Username)

	w.EXPECT().WriteAll("p@ss").Return(nil)
	require.NoError(t, svc.CopyField(ctx, itemID, service.FieldPassword))
	require.NoError(t, a.WaitClipboard(ctx))
}

func TestApp_GuardLocksService(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTestApp(t, mock.NewMockWriter(ctrl))
	ctx := context.Background()

	_, err := a.Vaults().CreateVault(ctx, "personal", "pw")
	require.NoError(t, err)

	a.guard.LockNow()

	_, ok := a.Vaults().OpenVault()
	assert.False(t, ok)
}

func TestApp_ResolveVault(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTestApp(t, mock.NewMockWriter(ctrl))
	ctx := context.Background()

	_, err := a.ResolveVault(ctx, "")
	require.ErrorIs(t, err, store.ErrVaultNotFound)

	first, err := a.Vaults().CreateVault(ctx, "personal", "pw")
	require.NoError(t, err)

	got, err := a.ResolveVault(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, first, got.ID)

	second, err := a.Vaults().CreateVault(ctx, "work", "pw")
	require.NoError(t, err)

	_, err = a.ResolveVault(ctx, "")
	require.ErrorIs(t, err, ErrVaultAmbiguous)

	got, err = a.ResolveVault(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, second, got.ID)

	got, err = a.ResolveVault(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "personal", got.Name)

	_, err = a.ResolveVault(ctx, "nope")
	require.ErrorIs(t, err, store.ErrVaultNotFound)
}

func TestApp_CloseLocks(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newTestApp(t, mock.NewMockWriter(ctrl))

	_, err := a.Vaults().CreateVault(context.Background(), "personal", "pw")
	require.NoError(t, err)

	require.NoError(t, a.Close())

	_, ok := a.Vaults().OpenVault()
	assert.False(t, ok)
}
