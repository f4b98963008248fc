package tokenizer

import "github.com/gomlx/go-huggingface/hub"
import "github.com/gomlx/go-huggingface/tokenizers"
import "github.com/gomlx/go-huggingface/tokenizers/api"
import "github.com/gomlx/go-huggingface/tokenizers/hftokenizer"
import "github.com/pkg/errors"

// Source locates a pretrained tokenizer: a local tokenizer.json File, or a HuggingFace Repo.
type Source struct {
	Repo      string
	File      string
	AuthToken string
}

// Load loads the pretrained tokenizer and wraps it into an Adapter with row length maxLength.
func Load(src Source, maxLength int) (*Adapter, error) {
	var tok api.Tokenizer
	switch {
	case src.File != "":
		t, err := hftokenizer.NewFromFile(nil, src.File)
		if err != nil {
			return nil, errors.Wrapf(err, "load tokenizer %s", src.File)
		}
		tok = t
	case src.Repo != "":
		repo := hub.New(src.Repo).WithAuth(src.AuthToken)
		t, err := tokenizers.New(repo)
		if err != nil {
			return nil, errors.Wrapf(err, "load tokenizer %s", src.Repo)
		}
		tok = t
	default:
		return nil, errors.New("tokenizer: neither file nor repo configured")
	}

	special := Special{
		Pad: specialID(tok, api.TokPad),
		CLS: specialID(tok, api.TokClassification),
		SEP: specialID(tok, api.TokEndOfSentence),
	}
	if special.Pad == NoToken {
		special.Pad = 0
	}
	return NewAdapter(tok, special, maxLength)
}

func specialID(tok api.Tokenizer, token api.SpecialToken) int {
	id, err := tok.SpecialTokenID(token)
	if err != nil {
		return NoToken
	}
	return id
}
