package ports

// TranscriptSink persists rendered transcript sections incrementally.
// AppendSection buffers one section's lines; Flush rewrites the persisted
// file and returns its location. Flush is called after every round commit,
// so implementations must tolerate being called many times.
type TranscriptSink interface {
	AppendSection(lines []string)
	Flush() (string, error)
}
