// Package configs manages pagevault's TOML configuration.
//
// A vault lives in a single base directory containing config.toml, the
// keypair PEM files, the sqlite metadata database, the audit log, and the
// per-document artifact directory. Load returns defaults for anything the
// config file does not set, so a bare directory is a valid vault.
package configs
