package swiftmt

import "fmt"

// Parsed is the result of running a message through the full pipeline.
type Parsed struct {
	Blocks      BlockSet
	Basic       BasicHeader
	Application ApplicationHeader
	Text        TextFields
	Trailer     Trailer
}

// Parser runs validation, segmentation and field extraction with a fixed pair
// of policies. A Parser holds no mutable state and may be shared.
type Parser struct {
	validator Validator
	segmenter Segmenter
}

// NewParser builds a parser from the given strategies. Nil arguments select
// the defaults.
func NewParser(v Validator, s Segmenter) *Parser {
	if v == nil {
		v = OrderingValidator{}
	}
	if s == nil {
		s = LookaheadSegmenter{}
	}
	return &Parser{validator: v, segmenter: s}
}

// NewParserForPolicies resolves both policies by name.
func NewParserForPolicies(validation, segmentation string) (*Parser, error) {
	v, err := NewValidator(validation)
	if err != nil {
		return nil, err
	}
	s, err := NewSegmenter(segmentation)
	if err != nil {
		return nil, err
	}
	return NewParser(v, s), nil
}

// DefaultParser uses the ordering validator and the lookahead segmenter.
var DefaultParser = NewParser(nil, nil)

// Parse runs raw through DefaultParser.
func Parse(raw string) (Parsed, error) {
	return DefaultParser.Parse(raw)
}

// Validate checks raw with the parser's validation policy.
func (p *Parser) Validate(raw string) error {
	return p.validator.Validate(raw)
}

// Segment splits raw with the parser's segmentation policy.
func (p *Parser) Segment(raw string) BlockSet {
	return p.segmenter.Segment(raw)
}

// Parse validates raw, splits it into blocks and extracts every field. A
// block the segmenter leaves empty is reported as ErrBlockMissing naming the
// first such block in wire order.
func (p *Parser) Parse(raw string) (Parsed, error) {
	if err := p.validator.Validate(raw); err != nil {
		return Parsed{}, err
	}

	blocks := p.segmenter.Segment(raw)
	if missing := blocks.Missing(); len(missing) > 0 {
		return Parsed{}, &BlockError{Block: missing[0], Err: ErrBlockMissing}
	}

	return Extract(blocks)
}

// Extract decodes the fields of an already segmented message.
func Extract(blocks BlockSet) (Parsed, error) {
	basic, err := ExtractBasicHeader(blocks.BasicHeader)
	if err != nil {
		return Parsed{}, fmt.Errorf("extract basic header: %w", err)
	}
	app, err := ExtractApplicationHeader(blocks.ApplicationHeader)
	if err != nil {
		return Parsed{}, fmt.Errorf("extract application header: %w", err)
	}
	trailer, err := ExtractTrailer(blocks.Trailer)
	if err != nil {
		return Parsed{}, fmt.Errorf("extract trailer: %w", err)
	}

	return Parsed{
		Blocks:      blocks,
		Basic:       basic,
		Application: app,
		Text:        ParseTextBlock(blocks.Text),
		Trailer:     trailer,
	}, nil
}
