// Package subtitles reads SRT subtitle files, moves cues by the sync delay,
// and writes them back as SRT or WebVTT.
//
// Shifting lets captions that were timed against one stream follow the other
// stream of a synchronized pair: a positive offset delays every cue, a
// negative one pulls cues earlier and drops those that would end before zero.
package subtitles
