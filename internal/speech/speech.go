// Package speech provides spoken feedback for the physioapp coaching
// system by shelling out to a system text-to-speech command.
package speech

// Announcer speaks coaching feedback to the user.
type Announcer interface {
	// Say queues the given text for speech. Implementations must not
	// block the caller on audio playback.
	Say(text string)
	// Close stops the announcer and releases its resources.
	Close() error
}

// NopAnnouncer discards all speech. Used when TTS is disabled.
type NopAnnouncer struct{}

// Say implements Announcer.
func (NopAnnouncer) Say(string) {}

// Close implements Announcer.
func (NopAnnouncer) Close() error { return nil }
