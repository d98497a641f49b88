// Package ffprobe runs ffprobe against local media files and decodes the
// parts of its JSON report a sync session cares about: container duration
// and how many video, audio and subtitle streams a file carries.
package ffprobe
