// Package card models LINE flex message containers. Every component adds
// its own "type" field when marshalled, so callers only fill in content.
package card

import "encoding/json"

const (
	LayoutVertical   = "vertical"
	LayoutHorizontal = "horizontal"
	LayoutBaseline   = "baseline"
)

// Container is a top level flex payload: a Bubble or a Carousel.
type Container interface {
	container()
}

// Component is anything that can sit inside a Box.
type Component interface {
	component()
}

type Bubble struct {
	Direction string        `json:"direction,omitempty"`
	Header    *Box          `json:"header,omitempty"`
	Hero      *Image        `json:"hero,omitempty"`
	Body      *Box          `json:"body,omitempty"`
	Footer    *Box          `json:"footer,omitempty"`
	Styles    *BubbleStyles `json:"styles,omitempty"`
}

type BubbleStyles struct {
	Header *BlockStyle `json:"header,omitempty"`
	Hero   *BlockStyle `json:"hero,omitempty"`
	Body   *BlockStyle `json:"body,omitempty"`
	Footer *BlockStyle `json:"footer,omitempty"`
}

type BlockStyle struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Separator       bool   `json:"separator,omitempty"`
}

type Carousel struct {
	Contents []*Bubble `json:"contents"`
}

type Box struct {
	Layout          string      `json:"layout"`
	Contents        []Component `json:"contents"`
	Flex            *int        `json:"flex,omitempty"`
	Spacing         string      `json:"spacing,omitempty"`
	Margin          string      `json:"margin,omitempty"`
	BackgroundColor string      `json:"backgroundColor,omitempty"`
	Action          *Action     `json:"action,omitempty"`
}

type Text struct {
	Text    string  `json:"text"`
	Flex    *int    `json:"flex,omitempty"`
	Size    string  `json:"size,omitempty"`
	Align   string  `json:"align,omitempty"`
	Gravity string  `json:"gravity,omitempty"`
	Weight  string  `json:"weight,omitempty"`
	Color   string  `json:"color,omitempty"`
	Margin  string  `json:"margin,omitempty"`
	Wrap    bool    `json:"wrap,omitempty"`
	Action  *Action `json:"action,omitempty"`
}

type Image struct {
	URL             string  `json:"url"`
	Flex            *int    `json:"flex,omitempty"`
	Size            string  `json:"size,omitempty"`
	Align           string  `json:"align,omitempty"`
	AspectRatio     string  `json:"aspectRatio,omitempty"`
	AspectMode      string  `json:"aspectMode,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	Action          *Action `json:"action,omitempty"`
}

type Icon struct {
	URL  string `json:"url"`
	Size string `json:"size,omitempty"`
}

type Button struct {
	Action *Action `json:"action"`
	Style  string  `json:"style,omitempty"`
	Height string  `json:"height,omitempty"`
	Margin string  `json:"margin,omitempty"`
}

type Separator struct {
	Margin string `json:"margin,omitempty"`
}

// Action is shared by flex components and quick reply buttons.
type Action struct {
	Type        string `json:"type"`
	Label       string `json:"label,omitempty"`
	URI         string `json:"uri,omitempty"`
	Data        string `json:"data,omitempty"`
	DisplayText string `json:"displayText,omitempty"`
}

func (*Bubble) container()   {}
func (*Carousel) container() {}

func (*Box) component()       {}
func (*Text) component()      {}
func (*Image) component()     {}
func (*Icon) component()      {}
func (*Button) component()    {}
func (*Separator) component() {}

// Flex returns a pointer so that a zero flex is still emitted.
func Flex(n int) *int {
	return &n
}

func VBox(contents ...Component) *Box {
	return &Box{Layout: LayoutVertical, Contents: contents}
}

func HBox(contents ...Component) *Box {
	return &Box{Layout: LayoutHorizontal, Contents: contents}
}

func BaselineBox(contents ...Component) *Box {
	return &Box{Layout: LayoutBaseline, Contents: contents}
}

// Add appends components and returns the box for chaining.
func (b *Box) Add(contents ...Component) *Box {
	b.Contents = append(b.Contents, contents...)
	return b
}

func PostbackAction(label, data string) *Action {
	return &Action{Type: "postback", Label: label, Data: data}
}

func URIAction(label, uri string) *Action {
	return &Action{Type: "uri", Label: label, URI: uri}
}

func LocationAction(label string) *Action {
	return &Action{Type: "location", Label: label}
}

func withType(typ string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "{}" {
		return []byte(`{"type":"` + typ + `"}`), nil
	}
	out := make([]byte, 0, len(b)+len(typ)+10)
	out = append(out, `{"type":"`...)
	out = append(out, typ...)
	out = append(out, `",`...)
	return append(out, b[1:]...), nil
}

func (b *Bubble) MarshalJSON() ([]byte, error) {
	type alias Bubble
	return withType("bubble", (*alias)(b))
}

func (c *Carousel) MarshalJSON() ([]byte, error) {
	type alias Carousel
	return withType("carousel", (*alias)(c))
}

func (b *Box) MarshalJSON() ([]byte, error) {
	type alias Box
	a := (*alias)(b)
	if a.Contents == nil {
		cp := *a
		cp.Contents = []Component{}
		a = &cp
	}
	return withType("box", a)
}

func (t *Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return withType("text", (*alias)(t))
}

func (i *Image) MarshalJSON() ([]byte, error) {
	type alias Image
	return withType("image", (*alias)(i))
}

func (i *Icon) MarshalJSON() ([]byte, error) {
	type alias Icon
	return withType("icon", (*alias)(i))
}

func (b *Button) MarshalJSON() ([]byte, error) {
	type alias Button
	return withType("button", (*alias)(b))
}

func (s *Separator) MarshalJSON() ([]byte, error) {
	type alias Separator
	return withType("separator", (*alias)(s))
}
