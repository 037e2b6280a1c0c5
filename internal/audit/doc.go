// Package audit records every document access as an append-only JSON Lines
// log keyed by document and identity.
//
// The access gate writes a RASTER_VIEW entry for each page served and an
// ORIGINAL_DOWNLOAD entry (with client IP and agent) for each decrypted
// download. Entries are never mutated or deleted; reporting reads them back
// with ReadEntries and aggregates with CountByType.
package audit
