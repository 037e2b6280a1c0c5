// Package access enforces who may read or delete protected documents.
//
// The Gate is the single entry point for reads: watermarked page views are
// available to any identity, decrypted originals only to identities holding
// the elevated download entitlement, and deletion only to ADMIN tier
// identities. Successful reads are appended to the audit log.
package access
