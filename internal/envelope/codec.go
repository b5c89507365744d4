package envelope

import (
	"encoding/json"
	"fmt"
)

// Decode parses a text frame into an inbound envelope. Errors wrap
// ErrMalformedMessage. Unrecognised types decode to Unknown without error.
func Decode(data []byte) (Inbound, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	switch h.Type {
	case TypeFact:
		var w factWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("%w: fact: %v", ErrMalformedMessage, err)
		}
		if w.Data == nil {
			return nil, fmt.Errorf("%w: fact without data", ErrMalformedMessage)
		}
		return Fact{Text: *w.Data}, nil

	case TypeNews:
		var w newsWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("%w: news: %v", ErrMalformedMessage, err)
		}
		return News{Articles: w.Data}, nil

	case TypeError:
		var w errorWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("%w: error: %v", ErrMalformedMessage, err)
		}
		if w.Message == "" {
			w.Message = DefaultErrorMessage
		}
		return Error{Message: w.Message}, nil

	case TypeFakeNewsResult:
		var w verdictWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("%w: fake_news_result: %v", ErrMalformedMessage, err)
		}
		if w.Data == nil {
			return nil, fmt.Errorf("%w: fake_news_result without data", ErrMalformedMessage)
		}
		return Verdict{Verdict: *w.Data}, nil

	default:
		return Unknown{Type: h.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}

// Encode serializes an outbound envelope.
func Encode(msg Outbound) ([]byte, error) {
	switch m := msg.(type) {
	case NewsRequest:
		return json.Marshal(newsRequestWire{Type: TypeNews, Category: m.Category})
	case FactRequest:
		return json.Marshal(textWire{Type: TypeFactRequest, Text: m.Text})
	case FakeNewsCheck:
		return json.Marshal(checkWire{Type: TypeFakeNewsCheck, Text: m.Text})
	case nil:
		return nil, fmt.Errorf("encode: nil envelope")
	default:
		return nil, fmt.Errorf("encode: unsupported envelope %T", msg)
	}
}
