package ports

// ExtensionSource supplies the driver's decisions at each extension point:
// whether to keep going and, if so, how many extra rounds. Called
// synchronously between rounds, never mid-round.
type ExtensionSource interface {
	Continue() (bool, error)
	ExtraRounds() (int, error)
}

// GuidanceSource supplies optional one-shot steering text at extension
// points. An empty string means no guidance.
type GuidanceSource interface {
	Guidance() (string, error)
}
