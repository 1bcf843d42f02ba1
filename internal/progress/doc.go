// Package progress carries calculation progress from backends to whatever
// displays it. Backends report a fraction in [0, 1] through a
// ProgressCallback; a ProgressSubject fans those reports out to observers
// such as a channel feeding the CLI spinner or the TUI, or a debug logger.
package progress
