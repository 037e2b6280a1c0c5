// Package ingest implements the document upload pipeline.
//
// An Ingestor takes a raw PDF payload and produces the full artifact set
// for one document: an AES-256-GCM ciphertext, an RSA-wrapped document
// key, an envelope metadata record, and a directory of watermarked page
// images. The pipeline is all-or-nothing: artifacts are tracked as they
// are written and removed again on any failure, and the document record
// only becomes active at the final commit.
package ingest
