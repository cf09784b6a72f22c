// Package tiktoken adapts the tiktoken BPE tables to the token encoder
// port.
package tiktoken

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"github.com/XueJourney/AgentRound/internal/ports"
)

const fallbackEncoding = "cl100k_base"

var _ ports.TokenEncoder = (*Encoder)(nil)

// Encoder counts tokens with the encoding of the configured model. The
// encoding loads lazily on first use; if the model is unknown the general
// fallback encoding is tried, and if that is unavailable too a bytes/4
// estimate keeps counts flowing instead of failing the round.
type Encoder struct {
	model  string
	logger *zap.Logger

	loadModel    func(string) (*tiktoken.Tiktoken, error)
	loadEncoding func(string) (*tiktoken.Tiktoken, error)

	once sync.Once
	enc  *tiktoken.Tiktoken
}

func NewEncoder(model string, logger *zap.Logger) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{
		model:        model,
		logger:       logger,
		loadModel:    tiktoken.EncodingForModel,
		loadEncoding: tiktoken.GetEncoding,
	}
}

// EncodeLen returns the token count of text. It never fails.
func (e *Encoder) EncodeLen(text string) int {
	e.init()
	if e.enc == nil {
		return len(text) / 4
	}
	return len(e.enc.Encode(text, nil, nil))
}

func (e *Encoder) init() {
	e.once.Do(func() {
		enc, err := e.loadModel(e.model)
		if err == nil {
			e.enc = enc
			return
		}
		e.logger.Warn("no encoding for model, trying fallback",
			zap.String("model", e.model),
			zap.String("fallback", fallbackEncoding),
			zap.Error(err),
		)

		enc, err = e.loadEncoding(fallbackEncoding)
		if err != nil {
			e.logger.Warn("fallback encoding unavailable, estimating from byte length",
				zap.Error(err),
			)
			return
		}
		e.enc = enc
	})
}
