// Package media identifies the streams a session synchronizes.
//
// A Source describes where a stream comes from (local file, YouTube video or
// plain URL) and yields a stable signature used to key saved progress. Local
// file names are NFC-normalized so the same file produces the same signature
// whether it was listed by a decomposing filesystem or not.
package media
