package ports

// TokenEncoder reports the encoded token length of a text fragment.
// Deterministic, side-effect free.
type TokenEncoder interface {
	EncodeLen(text string) int
}
