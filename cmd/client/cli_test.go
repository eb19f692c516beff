package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/internal/vault"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func init() {
	color.NoColor = true
}

// runCLI executes one zkvault invocation against the JSON file store in dir.
// Every password prompt is answered from prompts, in order.
func runCLI(t *testing.T, dir string, prompts []string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	c := newCLI(strings.NewReader(""), &out, &bytes.Buffer{})
	c.prompt = func(label string) (string, error) {
		if len(prompts) == 0 {
			return "", errors.New("unexpected prompt: " + label)
		}
		answer := prompts[0]
		prompts = prompts[1:]
		return answer, nil
	}

	root := c.root()
	root.SetArgs(append([]string{
		"--backend", "file",
		"--file", filepath.Join(dir, "vaults.json"),
		"--kdf-iterations", "100000",
		"--log-file", filepath.Join(dir, "zkvault.log"),
	}, args...))
	root.SetOut(&out)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func createVault(t *testing.T, dir, name, password string) {
	t.Helper()

	out, err := runCLI(t, dir, []string{password, password}, "vault", "create", name)
	require.NoError(t, err)
	require.Contains(t, out, "Created vault "+name)
}

// ── vault ────────────────────────────────────────────────────────────────────

func TestCLI_VaultCreateAndList(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, nil, "vault", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No vaults yet")

	createVault(t, dir, "personal", "correct-horse")
	createVault(t, dir, "work", "battery-staple")

	out, err = runCLI(t, dir, nil, "vault", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "personal")
	assert.Contains(t, out, "work")
}

func TestCLI_VaultCreatePasswordMismatch(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, []string{"one", "two"}, "vault", "create", "personal")
	require.ErrorIs(t, err, errPasswordMismatch)

	out, err := runCLI(t, dir, nil, "vault", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No vaults yet")
}

func TestCLI_VaultRemove(t *testing.T) {
	dir := t.TempDir()
	createVault(t, dir, "personal", "correct-horse")
	createVault(t, dir, "work", "battery-staple")

	_, err := runCLI(t, dir, []string{"correct-horse", "p@ss"},
		"item", "add", "--vault", "personal", "--label", "Gmail")
	require.NoError(t, err)

	out, err := runCLI(t, dir, []string{"correct-horse"}, "vault", "rm", "personal")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed vault personal")

	out, err = runCLI(t, dir, nil, "vault", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "personal")
	assert.Contains(t, out, "work")
}

func TestCLI_VaultRemoveWrongPassword(t *testing.T) {
	dir := t.TempDir()
	createVault(t, dir, "personal", "correct-horse")

	_, err := runCLI(t, dir, []string{"wrong"}, "vault", "rm", "personal")
	require.ErrorIs(t, err, vault.ErrUnlockFailed)

	out, err := runCLI(t, dir, nil, "vault", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "personal")

	_, err = runCLI(t, dir, []string{"correct-horse"}, "item", "list")
	require.NoError(t, err)
}

// ── item ─────────────────────────────────────────────────────────────────────

func TestCLI_ItemLifecycle(t *testing.T) {
	dir := t.TempDir()
	createVault(t, dir, "personal", "correct-horse")

	out, err := runCLI(t, dir, []string{"correct-horse", "p@ss"},
		"item", "add", "--label", "Gmail", "--website", "gmail.com")
	require.NoError(t, err)
	itemID := uuidPattern.FindString(out)
	require.NotEmpty(t, itemID)

	out, err = runCLI(t, dir, []string{"correct-horse"}, "item", "list")
	require.NoError(t, err)
	assert.Contains(t, out, itemID)
	assert.Contains(t, out, "Gmail")
	assert.Contains(t, out, "gmail.com")
	assert.NotContains(t, out, "p@ss")

	out, err = runCLI(t, dir, []string{"correct-horse"}, "item", "show", itemID)
	require.NoError(t, err)
	assert.Contains(t, out, "Username: -")
	assert.Contains(t, out, maskedPassword)
	assert.NotContains(t, out, "p@ss")

	out, err = runCLI(t, dir, []string{"correct-horse"}, "item", "show", itemID, "--reveal")
	require.NoError(t, err)
	assert.Contains(t, out, "Password: p@ss")

	_, err = runCLI(t, dir, []string{"correct-horse"},
		"item", "edit", itemID, "--username", "me", "--website", "", "--generate", "12")
	require.NoError(t, err)

	out, err = runCLI(t, dir, []string{"correct-horse"}, "item", "show", itemID, "-r")
	require.NoError(t, err)
	assert.Contains(t, out, "Label:    Gmail")
	assert.Contains(t, out, "Website:  -")
	assert.Contains(t, out, "Username: me")
	assert.NotContains(t, out, "Password: p@ss")

	out, err = runCLI(t, dir, []string{"correct-horse"}, "item", "rm", itemID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed item")

	out, err = runCLI(t, dir, []string{"correct-horse"}, "item", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Vault is empty")
}

func TestCLI_ItemWrongPassword(t *testing.T) {
	dir := t.TempDir()
	createVault(t, dir, "personal", "correct-horse")

	_, err := runCLI(t, dir, []string{"wrong"}, "item", "list")
	require.ErrorIs(t, err, vault.ErrUnlockFailed)
}

func TestCLI_ItemNeedsVaultWhenSeveralExist(t *testing.T) {
	dir := t.TempDir()
	createVault(t, dir, "personal", "a")
	createVault(t, dir, "work", "b")

	_, err := runCLI(t, dir, nil, "item", "list")
	require.Error(t, err)

	out, err := runCLI(t, dir, []string{"b"}, "item", "list", "--vault", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "Vault is empty")
}

func TestCLI_ItemUnknownVault(t *testing.T) {
	dir := t.TempDir()
	createVault(t, dir, "personal", "a")

	_, err := runCLI(t, dir, nil, "item", "list", "-V", "nope")
	require.ErrorIs(t, err, store.ErrVaultNotFound)
}

func TestCLI_ItemAddEmptyPassword(t *testing.T) {
	dir := t.TempDir()
	createVault(t, dir, "personal", "a")

	_, err := runCLI(t, dir, []string{"a", ""}, "item", "add", "--label", "Gmail")
	require.ErrorIs(t, err, errEmptyPassword)
}

func TestCLI_ItemCopyUnknownField(t *testing.T) {
	dir := t.TempDir()
	createVault(t, dir, "personal", "a")

	_, err := runCLI(t, dir, nil, "item", "copy", "some-id", "--field", "notes")
	require.ErrorIs(t, err, service.ErrUnknownField)
}

// ── generate / version ───────────────────────────────────────────────────────

func TestCLI_Generate(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), nil, "generate", "-n", "12")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 12)
}

func TestCLI_Version(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Build version: N/A")
}

// ── readPassword ─────────────────────────────────────────────────────────────

func TestReadPassword_PipedLines(t *testing.T) {
	c := newCLI(strings.NewReader("first\nsecond"), &bytes.Buffer{}, &bytes.Buffer{})

	pw, err := c.readPassword("> ")
	require.NoError(t, err)
	assert.Equal(t, "first", pw)

	pw, err = c.readPassword("> ")
	require.NoError(t, err)
	assert.Equal(t, "second", pw)

	_, err = c.readPassword("> ")
	require.Error(t, err)
}
