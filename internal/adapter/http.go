package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/internal/utils"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/go-resty/resty/v2"
)

const (
	vaultsPath     = "/api/vaults"
	vaultPath      = "/api/vaults/{vaultID}"
	vaultItemsPath = "/api/vaults/{vaultID}/items"
	vaultItemPath  = "/api/vaults/{vaultID}/items/{itemID}"
)

type httpVaultStore struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPVaultStore constructs the REST implementation of [store.VaultStore].
// It normalises cfg.Address into a base URL and attaches cfg.Token as a
// bearer token to every request.
//
// Returns an error if cfg.Address is empty or cannot be parsed as a URL.
func NewHTTPVaultStore(cfg config.ClientAdapter, log *logger.Logger) (store.VaultStore, error) {
	baseURL, err := normalizeBaseURL(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, cfg.RequestTimeout, strings.TrimSpace(cfg.Token))

	return &httpVaultStore{client: client, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// CreateVaultRecord POSTs the public vault metadata to /api/vaults and
// returns the server-assigned vault ID.
//
// Servers that do not know the kdf column echo the row without it. A vault
// whose KDF differs from the default is deleted again in that case and
// ErrKDFNotStored is returned.
func (h *httpVaultStore) CreateVaultRecord(ctx context.Context, vault models.NewVault) (string, error) {
	var created vaultDTO

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(newVaultDTO(vault)).
		SetResult(&created).
		Post(vaultsPath)
	if err != nil {
		return "", fmt.Errorf("create vault request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", ErrMissingID
	}

	if storedKDF(created) != vault.KDF.Normalize() {
		h.logger.Warn().
			Str("func", "httpVaultStore.CreateVaultRecord").
			Str("vault_id", created.ID).
			Str("kdf", vault.KDF.Normalize().Algorithm).
			Msg("server dropped kdf parameters, removing vault")

		if delErr := h.DeleteVaultRecord(ctx, created.ID); delErr != nil {
			return "", fmt.Errorf("%w: rollback of vault %s failed: %w", ErrKDFNotStored, created.ID, delErr)
		}
		return "", ErrKDFNotStored
	}

	return created.ID, nil
}

// storedKDF is the KDF a later fetch of d would unlock with.
func storedKDF(d vaultDTO) crypto.KDFParams {
	if d.KDF == nil {
		return crypto.KDFParams{}.Normalize()
	}
	return d.KDF.Normalize()
}

func (h *httpVaultStore) FetchVaultRecord(ctx context.Context, vaultID string) (models.VaultRecord, error) {
	var dto vaultDTO

	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("vaultID", vaultID).
		SetResult(&dto).
		Get(vaultPath)
	if err != nil {
		return models.VaultRecord{}, fmt.Errorf("fetch vault request: %w", err)
	}
	if err = vaultRouteError(mapHTTPError(resp)); err != nil {
		return models.VaultRecord{}, err
	}

	// an admin view carries no key material
	if dto.EncryptedVaultKey == "" {
		return models.VaultRecord{}, fmt.Errorf("%w: vault %s has no wrapped key", ErrForbidden, vaultID)
	}

	return dto.record()
}

func (h *httpVaultStore) ListVaults(ctx context.Context) ([]models.VaultSummary, error) {
	var dtos []vaultDTO

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&dtos).
		Get(vaultsPath)
	if err != nil {
		return nil, fmt.Errorf("list vaults request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	out := make([]models.VaultSummary, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.summary())
	}
	return out, nil
}

// DeleteVaultRecord removes the vault. The server drops its items with it.
func (h *httpVaultStore) DeleteVaultRecord(ctx context.Context, vaultID string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("vaultID", vaultID).
		Delete(vaultPath)
	if err != nil {
		return fmt.Errorf("delete vault request: %w", err)
	}

	return vaultRouteError(mapHTTPError(resp))
}

func (h *httpVaultStore) CreateItemRecord(ctx context.Context, vaultID string, envelopes models.ItemEnvelopes) (string, error) {
	var created itemDTO

	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("vaultID", vaultID).
		SetBody(newItemDTO(envelopes)).
		SetResult(&created).
		Post(vaultItemsPath)
	if err != nil {
		return "", fmt.Errorf("create item request: %w", err)
	}
	if err = vaultRouteError(mapHTTPError(resp)); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", ErrMissingID
	}

	return created.ID, nil
}

func (h *httpVaultStore) FetchItems(ctx context.Context, vaultID string) ([]models.ItemRecord, error) {
	var dtos []itemDTO

	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("vaultID", vaultID).
		SetResult(&dtos).
		Get(vaultItemsPath)
	if err != nil {
		return nil, fmt.Errorf("fetch items request: %w", err)
	}
	if err = vaultRouteError(mapHTTPError(resp)); err != nil {
		return nil, err
	}

	items := make([]models.ItemRecord, 0, len(dtos))
	for _, d := range dtos {
		item, convErr := d.record()
		if convErr != nil {
			h.logger.Err(convErr).
				Str("func", "httpVaultStore.FetchItems").
				Str("vault_id", vaultID).
				Str("item_id", d.ID).
				Msg("malformed item from server")
			return nil, convErr
		}
		if item.VaultID == "" {
			item.VaultID = vaultID
		}
		items = append(items, item)
	}

	return items, nil
}

// UpdateItemRecord PATCHes the item. Website and username are always sent,
// null clearing them; the password is omitted when the patch keeps it.
func (h *httpVaultStore) UpdateItemRecord(ctx context.Context, vaultID, itemID string, patch models.ItemEnvelopesPatch) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"vaultID": vaultID, "itemID": itemID}).
		SetBody(patchItemDTO(patch)).
		Patch(vaultItemPath)
	if err != nil {
		return fmt.Errorf("update item request: %w", err)
	}

	return itemRouteError(resp)
}

func (h *httpVaultStore) DeleteItemRecord(ctx context.Context, vaultID, itemID string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"vaultID": vaultID, "itemID": itemID}).
		Delete(vaultItemPath)
	if err != nil {
		return fmt.Errorf("delete item request: %w", err)
	}

	return itemRouteError(resp)
}

// Close implements store.VaultStore. Idle connections are released.
func (h *httpVaultStore) Close() error {
	h.client.GetClient().CloseIdleConnections()
	return nil
}

// vaultRouteError adds store.ErrVaultNotFound to a 404 from a vault route.
func vaultRouteError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %w", store.ErrVaultNotFound, err)
	}
	return err
}

// itemRouteError tells a missing vault from a missing item by the server's
// error message.
func itemRouteError(resp *resty.Response) error {
	err := mapHTTPError(resp)
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	if strings.Contains(strings.ToLower(responseMessage(resp.Body())), "vault") {
		return fmt.Errorf("%w: %w", store.ErrVaultNotFound, err)
	}
	return fmt.Errorf("%w: %w", store.ErrItemNotFound, err)
}
