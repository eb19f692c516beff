package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Flag names registered by [RegisterFlags].
const (
	flagIdleTimeout    = "idle-timeout"
	flagClipboardClear = "clipboard-clear-after"
	flagKDF            = "kdf"
	flagKDFIterations  = "kdf-iterations"
	flagLogFile        = "log-file"
	flagBackend        = "backend"
	flagDSN            = "dsn"
	flagFilesPath      = "file"
	flagAddress        = "address"
	flagToken          = "token"
	flagRequestTimeout = "request-timeout"
	flagConfig         = "config"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// RegisterFlags defines the configuration flags on fs. Defaults are left at
// their zero value so that an unset flag never overrides env or defaults.
//
// Flags:
//
//	--idle-timeout           idle lock window (default 2m)
//	--clipboard-clear-after  clipboard auto-clear delay (default 30s)
//	--kdf                    key derivation for new vaults
//	--kdf-iterations         PBKDF2 iterations / Argon2id time
//	--log-file               JSON log file path
//	-b, --backend            storage backend: sqlite, file or remote
//	-d, --dsn                SQLite DSN
//	-f, --file               JSON file store path
//	-a, --address            remote server address host:port
//	--token                  remote server bearer token
//	--request-timeout        remote request timeout
//	-c, --config             JSON config file path
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Duration(flagIdleTimeout, 0, "lock the vault after this much inactivity (default 2m)")
	fs.Duration(flagClipboardClear, 0, "clear copied secrets after this delay, negative disables (default 30s)")
	fs.String(flagKDF, "", "key derivation for new vaults: pbkdf2-sha256 or argon2id")
	fs.Int(flagKDFIterations, 0, "PBKDF2 iterations or Argon2id time cost")
	fs.String(flagLogFile, "", "log file path")
	fs.StringP(flagBackend, "b", "", "storage backend: sqlite, file or remote (default sqlite)")
	fs.StringP(flagDSN, "d", "", "SQLite database path")
	fs.StringP(flagFilesPath, "f", "", "JSON file store path")
	fs.VarP(&NetAddress{}, flagAddress, "a", "remote server address host:port")
	fs.String(flagToken, "", "remote server bearer token")
	fs.Duration(flagRequestTimeout, 0, "remote request timeout (default 10s)")
	fs.StringP(flagConfig, "c", "", "JSON config file path")
}

// parseFlags reads the values registered by RegisterFlags from an already
// parsed fs.
func parseFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	idleTimeout, errIdle := fs.GetDuration(flagIdleTimeout)
	clipboardClear, errClipboard := fs.GetDuration(flagClipboardClear)
	kdf, errKDF := fs.GetString(flagKDF)
	kdfIterations, errIterations := fs.GetInt(flagKDFIterations)
	logFile, errLogFile := fs.GetString(flagLogFile)
	backend, errBackend := fs.GetString(flagBackend)
	dsn, errDSN := fs.GetString(flagDSN)
	filesPath, errFiles := fs.GetString(flagFilesPath)
	token, errToken := fs.GetString(flagToken)
	requestTimeout, errTimeout := fs.GetDuration(flagRequestTimeout)
	jsonConfigPath, errConfig := fs.GetString(flagConfig)

	if err := errors.Join(errIdle, errClipboard, errKDF, errIterations, errLogFile,
		errBackend, errDSN, errFiles, errToken, errTimeout, errConfig); err != nil {
		return nil, fmt.Errorf("error reading flags: %w", err)
	}

	var address string
	if f := fs.Lookup(flagAddress); f != nil {
		address = f.Value.String()
	}

	return &StructuredConfig{
		App: App{
			IdleTimeout:         idleTimeout,
			ClipboardClearAfter: clipboardClear,
			KDFAlgorithm:        kdf,
			KDFIterations:       kdfIterations,
			LogFile:             logFile,
		},
		Storage: Storage{
			Backend: backend,
			DB:      DB{DSN: dsn},
			Files:   Files{Path: filesPath},
		},
		Adapter: Adapter{
			Address:        address,
			Token:          token,
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
