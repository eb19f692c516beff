package service

// SecureCopier puts a secret on the clipboard and wipes the slice it was
// given. *clipboard.Guard implements it.
type SecureCopier interface {
	CopySecure(secret []byte) error
}
