package envelope

import (
	"encoding/json"
	"errors"

	"github.com/rickgao/newsdesk/internal/model"
)

// ErrMalformedMessage is returned when a frame cannot be parsed.
var ErrMalformedMessage = errors.New("malformed message")

// Type is the envelope discriminator.
type Type string

// Inbound types.
const (
	TypeFact           Type = "fact"
	TypeNews           Type = "news"
	TypeError          Type = "error"
	TypeFakeNewsResult Type = "fake_news_result"
)

// Outbound types. TypeNews is shared with the inbound set.
const (
	TypeFactRequest   Type = "fact_request"
	TypeFakeNewsCheck Type = "fake_news_check"
)

// DefaultErrorMessage is used when an error envelope carries no message.
const DefaultErrorMessage = "An error occurred"

// -----------------------------------------------------------------------------
// Inbound
// -----------------------------------------------------------------------------

// Inbound is a message received from the server. The set of implementations
// is closed: Fact, News, Error, Verdict and Unknown.
type Inbound interface {
	Kind() Type
	inbound()
}

// Fact carries a single fact string.
type Fact struct {
	Text string
}

// News carries a list of articles. An empty list is valid on the wire.
type News struct {
	Articles []model.Article
}

// Error carries a server-side error message.
type Error struct {
	Message string
}

// Verdict carries a fake news classification.
type Verdict struct {
	model.Verdict
}

// Unknown is any well-formed envelope whose type is not recognised.
type Unknown struct {
	Type Type
	Raw  json.RawMessage
}

func (Fact) Kind() Type    { return TypeFact }
func (News) Kind() Type    { return TypeNews }
func (Error) Kind() Type   { return TypeError }
func (Verdict) Kind() Type { return TypeFakeNewsResult }
func (u Unknown) Kind() Type {
	return u.Type
}

func (Fact) inbound()    {}
func (News) inbound()    {}
func (Error) inbound()   {}
func (Verdict) inbound() {}
func (Unknown) inbound() {}

// -----------------------------------------------------------------------------
// Outbound
// -----------------------------------------------------------------------------

// Outbound is a message sent to the server. The set of implementations is
// closed: NewsRequest, FactRequest and FakeNewsCheck.
type Outbound interface {
	Kind() Type
	outbound()
}

// NewsRequest asks for articles in a category.
type NewsRequest struct {
	Category string
}

// FactRequest asks for a fact. Text is optional.
type FactRequest struct {
	Text string
}

// FakeNewsCheck asks the server to classify Text.
type FakeNewsCheck struct {
	Text string
}

func (NewsRequest) Kind() Type   { return TypeNews }
func (FactRequest) Kind() Type   { return TypeFactRequest }
func (FakeNewsCheck) Kind() Type { return TypeFakeNewsCheck }

func (NewsRequest) outbound()   {}
func (FactRequest) outbound()   {}
func (FakeNewsCheck) outbound() {}

// -----------------------------------------------------------------------------
// Wire types
// -----------------------------------------------------------------------------

// header is used for type extraction before decoding the payload.
type header struct {
	Type Type `json:"type"`
}

type factWire struct {
	Data *string `json:"data"`
}

type newsWire struct {
	Data []model.Article `json:"data"`
}

type errorWire struct {
	Message string `json:"message"`
}

type verdictWire struct {
	Data *model.Verdict `json:"data"`
}

type newsRequestWire struct {
	Type     Type   `json:"type"`
	Category string `json:"category"`
}

type textWire struct {
	Type Type   `json:"type"`
	Text string `json:"text,omitempty"`
}

type checkWire struct {
	Type Type   `json:"type"`
	Text string `json:"text"`
}
